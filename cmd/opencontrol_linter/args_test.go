package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeArgs(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{name: "no args", in: nil, want: []string{}},
		{name: "empty token dropped", in: []string{""}, want: []string{}},
		{name: "bare flag", in: []string{"--components"}, want: []string{"--components"}},
		{name: "long with value", in: []string{"--components", "./a.yaml"}, want: []string{"--components=./a.yaml"}},
		{name: "alias with value", in: []string{"--standard", "./s.yaml"}, want: []string{"--standards=./s.yaml"}},
		{name: "short with value", in: []string{"-n", "./c.yaml"}, want: []string{"--certifications=./c.yaml"}},
		{name: "followed by flag", in: []string{"-o", "-a"}, want: []string{"-o", "-a"}},
		{name: "equals form untouched", in: []string{"--opencontrols=./x.yaml"}, want: []string{"--opencontrols=./x.yaml"}},
		{name: "other flags untouched", in: []string{"--format", "json", "-c"}, want: []string{"--format", "json", "-c"}},
		{name: "terminator", in: []string{"--", "-c", "x"}, want: []string{"--", "-c", "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeArgs(tt.in))
		})
	}
}
