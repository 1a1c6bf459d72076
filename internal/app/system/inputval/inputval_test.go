package inputval

import "testing"

type siteInput struct {
	Name  string  `validate:"required,max=10" label:"Site name"`
	Kind  string  `validate:"omitempty,oneof=text number" label:"Field type"`
	Price float64 `validate:"gte=0"`
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		in    siteInput
		first string
	}{
		{"valid", siteInput{Name: "Kitchen"}, ""},
		{"missing name", siteInput{}, "Site name is required."},
		{"too long", siteInput{Name: "abcdefghijk"}, "Site name must be at most 10 characters."},
		{"bad oneof", siteInput{Name: "ok", Kind: "blob"}, "Field type must be one of: text, number."},
		{"negative price", siteInput{Name: "ok", Price: -1}, "Price must be at least 0."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Validate(tt.in)
			if got := res.First(); got != tt.first {
				t.Errorf("First() = %q, want %q", got, tt.first)
			}
			if res.HasErrors() != (tt.first != "") {
				t.Errorf("HasErrors() = %v", res.HasErrors())
			}
		})
	}
}

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"user@example.com", true},
		{"user+tag@example.com", true},
		{"user@localhost", true},
		{"", false},
		{"   ", false},
		{"user", false},
		{"user@", false},
		{"@example.com", false},
		{".user@example.com", false},
		{"user..name@example.com", false},
		{"user@example..com", false},
		{"User Name <user@example.com>", false},
		{"user @example.com", false},
	}
	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			if got := IsValidEmail(tt.email); got != tt.want {
				t.Errorf("IsValidEmail(%q) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}
