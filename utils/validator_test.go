package utils

import "testing"

type registerForm struct {
	Name                 string `validate:"required,nameok"`
	Email                string `validate:"required,email"`
	Password             string `validate:"required,pwdmin"`
	PasswordConfirmation string `validate:"required,eqfield=Password"`
}

func TestValidateStructOK(t *testing.T) {
	f := registerForm{
		Name:                 "Asha Verma",
		Email:                "asha@example.com",
		Password:             "secret1",
		PasswordConfirmation: "secret1",
	}
	if err := ValidateStruct(&f); err != nil {
		t.Fatalf("expected valid form, got %v", err)
	}
}

func TestValidateStructRequired(t *testing.T) {
	f := registerForm{Email: "asha@example.com", Password: "secret1", PasswordConfirmation: "secret1"}
	if err := ValidateStruct(&f); err == nil {
		t.Fatalf("expected error for missing name")
	}
}

func TestValidateStructEmail(t *testing.T) {
	f := registerForm{Name: "Asha", Email: "not-an-email", Password: "secret1", PasswordConfirmation: "secret1"}
	if err := ValidateStruct(&f); err == nil {
		t.Fatalf("expected error for malformed email")
	}
}

func TestValidateStructPasswordMin(t *testing.T) {
	f := registerForm{Name: "Asha", Email: "asha@example.com", Password: "abc", PasswordConfirmation: "abc"}
	if err := ValidateStruct(&f); err == nil {
		t.Fatalf("expected error for short password")
	}
}

func TestValidateStructEqField(t *testing.T) {
	f := registerForm{Name: "Asha", Email: "asha@example.com", Password: "secret1", PasswordConfirmation: "secret2"}
	if err := ValidateStruct(&f); err == nil {
		t.Fatalf("expected error for mismatched confirmation")
	}
}

func TestValidateStructCoordinates(t *testing.T) {
	type locForm struct {
		Lat string `validate:"latitude"`
		Lon string `validate:"longitude"`
	}
	if err := ValidateStruct(&locForm{Lat: "28.6139", Lon: "77.2090"}); err != nil {
		t.Fatalf("expected valid coordinates, got %v", err)
	}
	if err := ValidateStruct(&locForm{Lat: "91.0", Lon: "77.2090"}); err == nil {
		t.Fatalf("expected error for out-of-range latitude")
	}
	if err := ValidateStruct(&locForm{Lat: "28.6139", Lon: "-181"}); err == nil {
		t.Fatalf("expected error for out-of-range longitude")
	}
}
