package validate_test

import (
	"testing"

	"github.com/ndthang/techmart/pkg/validate"
)

type registerInput struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Address  string `json:"address"  validate:"required"`
	Phone    string `json:"phone"    validate:"required,phone"`
	Website  string `json:"website"  validate:"nullable,min=4"`
}

func TestValidInput(t *testing.T) {
	errs := validate.Struct(registerInput{
		Email:    "buyer@example.com",
		Password: "secret1",
		Address:  "1 Main St",
		Phone:    "+12025550100",
		Website:  "", // nullable, allowed to be empty
	})
	if validate.HasErrors(errs) {
		t.Errorf("expected no errors, got: %v", errs)
	}
}

func TestRequiredFails(t *testing.T) {
	errs := validate.Struct(registerInput{})
	if !validate.HasErrors(errs) {
		t.Fatal("expected required errors")
	}
	for _, field := range []string{"email", "password", "address", "phone"} {
		if _, ok := errs[field]; !ok {
			t.Errorf("expected %s to be required", field)
		}
	}
	if _, ok := errs["website"]; ok {
		t.Error("nullable website should not error when empty")
	}
}

func TestEmailRule(t *testing.T) {
	type in struct {
		Email string `json:"email" validate:"required,email"`
	}
	if errs := validate.Struct(in{Email: "not-an-email"}); errs["email"] == "" {
		t.Error("expected email validation error")
	}
	if errs := validate.Struct(in{Email: "valid@example.com"}); validate.HasErrors(errs) {
		t.Errorf("expected no errors, got: %v", errs)
	}
}

func TestPhoneRule(t *testing.T) {
	type in struct {
		Phone string `json:"phone" validate:"required,phone"`
	}
	for _, bad := range []string{"123", "abc12345678", "+1 202 555", "123456789012345678"} {
		if errs := validate.Struct(in{Phone: bad}); errs["phone"] == "" {
			t.Errorf("expected %q to fail phone validation", bad)
		}
	}
	for _, good := range []string{"+12025550100", "84912345678"} {
		if errs := validate.Struct(in{Phone: good}); validate.HasErrors(errs) {
			t.Errorf("expected %q to pass, got: %v", good, errs)
		}
	}
}

func TestMinOnStringsAndNumbers(t *testing.T) {
	type in struct {
		Password string  `json:"password" validate:"required,min=6"`
		Price    float64 `json:"price"    validate:"required,min=1"`
	}
	errs := validate.Struct(in{Password: "short", Price: 0.5})
	if errs["password"] == "" {
		t.Error("expected password length error")
	}
	if errs["price"] == "" {
		t.Error("expected price minimum error")
	}
}

func TestGteLte(t *testing.T) {
	type in struct {
		Quantity int `json:"quantity" validate:"required,gte=1,lte=100"`
	}
	if errs := validate.Struct(in{Quantity: 0}); errs["quantity"] == "" {
		t.Error("expected gte error for 0")
	}
	if errs := validate.Struct(in{Quantity: 101}); errs["quantity"] == "" {
		t.Error("expected lte error for 101")
	}
	if errs := validate.Struct(in{Quantity: 50}); validate.HasErrors(errs) {
		t.Errorf("expected no errors, got: %v", errs)
	}
}

func TestInRuleKeepsFullList(t *testing.T) {
	type in struct {
		Role string `json:"role" validate:"required,in=admin,customer"`
	}
	if errs := validate.Struct(in{Role: "root"}); errs["role"] == "" {
		t.Error("expected in-list error for root")
	}
	for _, role := range []string{"admin", "customer"} {
		if errs := validate.Struct(in{Role: role}); validate.HasErrors(errs) {
			t.Errorf("expected %q to pass, got: %v", role, errs)
		}
	}
}

func TestFirstFailingRuleWins(t *testing.T) {
	type in struct {
		Email string `json:"email" validate:"required,email"`
	}
	errs := validate.Struct(in{})
	if got := errs["email"]; got != "The email field is required." {
		t.Errorf("expected the required message first, got %q", got)
	}
}
