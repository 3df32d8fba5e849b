package validate_test

import (
	"testing"

	"github.com/shashiranjanraj/villageangel/pkg/validate"
)

type registerInput struct {
	FullName string  `json:"fullName" validate:"required,max=255"`
	UserName string  `json:"userName" validate:"required,min=3,max=100"`
	Email    string  `json:"email"    validate:"required,email"`
	Phone    string  `json:"phone"    validate:"required,digits=10"`
	Password string  `json:"password" validate:"required,min=6"`
	Role     string  `json:"role"     validate:"nullable,in=USER,ADMIN"`
	Credit   float64 `json:"credit"   validate:"between=0,100000"`
}

func validInput() registerInput {
	return registerInput{
		FullName: "Asha Verma",
		UserName: "asha",
		Email:    "asha@example.com",
		Phone:    "9876543210",
		Password: "secret123",
		Role:     "USER",
		Credit:   5000,
	}
}

func TestStructPassesValidInput(t *testing.T) {
	errs := validate.Struct(validInput())
	if validate.HasErrors(errs) {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestStructRequired(t *testing.T) {
	in := validInput()
	in.Email = "   "

	errs := validate.Struct(in)
	if errs["email"] != "The email field is required." {
		t.Errorf("email error = %q", errs["email"])
	}
	if len(errs) != 1 {
		t.Errorf("errs = %v, want only email", errs)
	}
}

func TestStructReportsFirstFailurePerField(t *testing.T) {
	in := validInput()
	in.UserName = "ab" // fails min before max could matter

	errs := validate.Struct(in)
	if errs["userName"] != "The userName must be at least 3 characters." {
		t.Errorf("userName error = %q", errs["userName"])
	}
}

func TestStructEmail(t *testing.T) {
	for _, bad := range []string{"not-an-email", "a@b", "@example.com", "user@.com"} {
		in := validInput()
		in.Email = bad
		if errs := validate.Struct(in); errs["email"] == "" {
			t.Errorf("email %q should fail", bad)
		}
	}
}

func TestStructNullableSkipsEmptyField(t *testing.T) {
	in := validInput()
	in.Role = ""

	if errs := validate.Struct(in); validate.HasErrors(errs) {
		t.Errorf("empty nullable role should pass, got %v", errs)
	}
}

func TestStructInListKeepsAllOptions(t *testing.T) {
	// Commas inside in= must not be split into separate rules.
	in := validInput()
	in.Role = "ADMIN"
	if errs := validate.Struct(in); validate.HasErrors(errs) {
		t.Errorf("ADMIN should be allowed, got %v", errs)
	}

	in.Role = "ROOT"
	errs := validate.Struct(in)
	if errs["role"] != "The selected role is invalid." {
		t.Errorf("role error = %q", errs["role"])
	}
}

func TestStructDigits(t *testing.T) {
	in := validInput()
	in.Phone = "98765-4321"
	if errs := validate.Struct(in); errs["phone"] == "" {
		t.Error("non-digit phone should fail")
	}

	in.Phone = "123"
	if errs := validate.Struct(in); errs["phone"] == "" {
		t.Error("short phone should fail")
	}
}

func TestStructNumericBounds(t *testing.T) {
	type order struct {
		Price float64 `json:"price" validate:"required,gt=0"`
		Stock int     `json:"stock" validate:"gte=0"`
	}

	errs := validate.Struct(order{Price: 0, Stock: -1})
	if errs["price"] != "The price field is required." {
		t.Errorf("price error = %q", errs["price"])
	}
	if errs["stock"] != "The stock must be greater than or equal to 0." {
		t.Errorf("stock error = %q", errs["stock"])
	}

	errs = validate.Struct(order{Price: -5, Stock: 0})
	if errs["price"] != "The price must be greater than 0." {
		t.Errorf("price error = %q", errs["price"])
	}

	if errs := validate.Struct(order{Price: 49.99, Stock: 0}); validate.HasErrors(errs) {
		t.Errorf("expected no errors, got %v", errs)
	}
}

func TestStructBetween(t *testing.T) {
	in := validInput()
	in.Credit = 100001
	if errs := validate.Struct(in); errs["credit"] == "" {
		t.Error("credit above range should fail")
	}

	in.Credit = 0
	if errs := validate.Struct(in); errs["credit"] != "" {
		t.Error("lower bound is inclusive")
	}
}

func TestStructPointerInput(t *testing.T) {
	in := validInput()
	if errs := validate.Struct(&in); validate.HasErrors(errs) {
		t.Errorf("pointer input should validate the same, got %v", errs)
	}
}

func TestStructNonStructInput(t *testing.T) {
	if errs := validate.Struct("not a struct"); validate.HasErrors(errs) {
		t.Errorf("non-struct input should yield no errors, got %v", errs)
	}
}
