package citekey

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  Smith   &  Wesson ", "smith wesson"},
		{"“Quoted” Title", "quoted title"},
		{"O'Brien", "obrien"},
		{"ab\u200ccd\u202e", "abcd"},
		{"a،b", "a,b"},
		{"Smith-Jones", "smith-jones"},
		{"(J.)", "j"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestAuthorYear(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []Key
	}{
		{"simple", "(Smith, 2020)", []Key{"AY:smith_2020"}},
		{"two authors", "(Smith and Jones, 2019)", []Key{"AY:smith_jones_2019"}},
		{"et al", "(Smith et al., 2021)", []Key{"AY:smith_2021"}},
		{"persian et al", "(اسمیت و همکاران، ۱۳۹۹)", []Key{"AY:اسمیت_1399"}},
		{"no author", "(2020)", []Key{"AY:unknown_2020"}},
		{"persian digits", "(اسمیت، ۱۳۹۹)", []Key{"AY:اسمیت_1399"}},
		{"duplicate year", "(Smith, 2020, 2020)", []Key{"AY:smith_2020"}},
		{"no year", "(see above)", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AuthorYear(tt.in))
		})
	}
}

func TestAuthorYear_CapsYears(t *testing.T) {
	keys := AuthorYear("(A, 2001; B, 2002; C, 2003; D, 2004)")
	assert.Len(t, keys, MaxYearsPerSpan)
	assert.Equal(t, Key("AY:a_2001"), keys[0])
}

func TestKeyNamespace(t *testing.T) {
	assert.Equal(t, NamespaceNumeric, Numeric(12).Namespace())
	assert.Equal(t, NamespaceAuthorYear, Key("AY:smith_2020").Namespace())
	assert.Equal(t, NamespaceText, Text("Some free text").Namespace())
	assert.Equal(t, NamespaceNone, Key("x").Namespace())

	assert.True(t, Numeric(1).Matchable())
	assert.False(t, Text("abc").Matchable())

	n, ok := Numeric(42).Number()
	assert.True(t, ok)
	assert.Equal(t, 42, n)
	_, ok = Key("AY:x_2020").Number()
	assert.False(t, ok)
}

func TestText_Truncates(t *testing.T) {
	k := Text(strings.Repeat("word ", 40))
	assert.Equal(t, TextKeyMaxLen, RuneLen(strings.TrimPrefix(string(k), TextPrefix)))
}
