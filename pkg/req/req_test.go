package req

import (
	"errors"
	"strings"
	"testing"
)

type payload struct {
	Name *string `json:"name"`
	Age  int     `json:"age"`
}

func TestDecode(t *testing.T) {
	p, err := Decode[payload](strings.NewReader(`{"name":"x","age":3}`))
	if err != nil {
		t.Fatal(err)
	}
	if p.Name == nil || *p.Name != "x" || p.Age != 3 {
		t.Errorf("unexpected %+v", p)
	}

	p, err = Decode[payload](strings.NewReader(`{"age":3}`))
	if err != nil || p.Name != nil {
		t.Errorf("absent field must stay nil: %+v, %v", p, err)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := map[string]string{
		"empty":    "   ",
		"broken":   `{"name":`,
		"trailing": `{"age":1} {"age":2}`,
		"type":     `{"age":"three"}`,
	}
	for name, body := range tests {
		if _, err := Decode[payload](strings.NewReader(body)); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}

	if _, err := Decode[payload](strings.NewReader("")); !errors.Is(err, ErrEmptyBody) {
		t.Errorf("got %v, want ErrEmptyBody", err)
	}
}

func TestIntOrDefault(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 10},
		{"abc", 10},
		{"7", 7},
		{" -2 ", -2},
		{"1.5", 10},
	}
	for _, tt := range tests {
		if got := IntOrDefault(tt.in, 10); got != tt.want {
			t.Errorf("IntOrDefault(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
