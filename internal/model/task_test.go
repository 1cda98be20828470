package model

import (
	"errors"
	"testing"
)

func TestCreateTaskRequestValidate(t *testing.T) {
	cases := []struct {
		title string
		ok    bool
	}{
		{"Buy milk", true},
		{"  padded  ", true},
		{"", false},
		{"   ", false},
		{"\t\n", false},
	}

	for _, c := range cases {
		req := CreateTaskRequest{Title: c.title}
		err := req.Validate()
		if c.ok && err != nil {
			t.Errorf("Validate(%q) = %v, want nil", c.title, err)
		}
		if !c.ok && !errors.Is(err, ErrTitleRequired) {
			t.Errorf("Validate(%q) = %v, want ErrTitleRequired", c.title, err)
		}
	}
}
