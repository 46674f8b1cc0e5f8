// My Library - Personal Book Library Tracker
// Copyright 2026 stratonov777
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/stratonov777/my-library

package validation

import (
	"strings"
	"testing"
)

type patchLocationFixture struct {
	Location string `validate:"required,oneof=home work"`
}

type createBookFixture struct {
	Title  string `validate:"required"`
	Author string `validate:"required"`
	Rating int    `validate:"omitempty,gte=1,lte=10"`
}

func TestValidateStructPasses(t *testing.T) {
	if err := ValidateStruct(&patchLocationFixture{Location: "home"}); err != nil {
		t.Errorf("valid struct failed: %v", err)
	}
	if err := ValidateStruct(&createBookFixture{Title: "T", Author: "A", Rating: 7}); err != nil {
		t.Errorf("valid struct failed: %v", err)
	}
}

func TestValidateStructOneof(t *testing.T) {
	err := ValidateStruct(&patchLocationFixture{Location: "attic"})
	if err == nil {
		t.Fatal("expected validation failure")
	}

	apiErr := err.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("code = %q, want VALIDATION_ERROR", apiErr.Code)
	}
	if !strings.Contains(apiErr.Message, "must be one of") {
		t.Errorf("message = %q, want oneof wording", apiErr.Message)
	}
}

func TestValidateStructCollectsAllFields(t *testing.T) {
	err := ValidateStruct(&createBookFixture{Rating: 20})
	if err == nil {
		t.Fatal("expected validation failure")
	}
	if len(err.Errors()) != 3 {
		t.Fatalf("got %d errors, want 3: %v", len(err.Errors()), err)
	}

	apiErr := err.ToAPIError()
	if _, ok := apiErr.Details["fields"]; !ok {
		t.Error("multi-error response missing fields detail")
	}
}

func TestValidateStructRangeMessage(t *testing.T) {
	err := ValidateStruct(&createBookFixture{Title: "T", Author: "A", Rating: 11})
	if err == nil {
		t.Fatal("expected validation failure")
	}
	if !strings.Contains(err.Error(), "less than or equal to 10") {
		t.Errorf("message = %q, want lte wording", err.Error())
	}
}
