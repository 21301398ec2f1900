package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestError(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name:     "without cause",
			err:      New(ErrCodeDuplicateRoute, "route %q declared twice", "home"),
			expected: `DUPLICATE_ROUTE: route "home" declared twice`,
		},
		{
			name:     "with cause",
			err:      Wrap(ErrCodeInvalidFeed, errors.New("unexpected EOF"), "decode feed"),
			expected: "INVALID_FEED: decode feed: unexpected EOF",
		},
		{
			name: "with attribution",
			err: New(ErrCodeStartDestinationArgs, "start destination has mandatory arguments").
				At("com.example.Home", Position{File: "Home.kt", Line: 12}),
			expected: "MANDATORY_ARG_ON_START_DESTINATION: 'com.example.Home': start destination has mandatory arguments (Home.kt:12)",
		},
		{
			name:     "position without line",
			err:      New(ErrCodeUnknownNavType, "no nav type").At("A", Position{File: "A.kt"}),
			expected: "UNKNOWN_NAV_TYPE: 'A': no nav type (A.kt)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestAtKeepsInnermostAttribution(t *testing.T) {
	err := New(ErrCodeUnresolvedType, "unresolved").
		At("inner.Decl", Position{File: "Inner.kt", Line: 3}).
		At("outer.Decl", Position{File: "Outer.kt", Line: 9})

	if err.Declaration != "inner.Decl" {
		t.Errorf("Declaration = %v, want %v", err.Declaration, "inner.Decl")
	}
	if err.Position.File != "Inner.kt" || err.Position.Line != 3 {
		t.Errorf("Position = %v, want Inner.kt:3", err.Position)
	}
}

func TestWithSourceLine(t *testing.T) {
	err := New(ErrCodeUnresolvedType, "x").WithSourceLine("   val x: Foo<Bar>  \n")
	if err.SourceLine != "val x: Foo<Bar>" {
		t.Errorf("SourceLine = %q, want %q", err.SourceLine, "val x: Foo<Bar>")
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := Wrap(ErrCodeEmitFailed, cause, "write artifact")

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find wrapped cause")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeDelegateConflict, "test"),
			code:     ErrCodeDelegateConflict,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeDelegateConflict, "test"),
			code:     ErrCodeStartCount,
			expected: false,
		},
		{
			name:     "wrapped by fmt",
			err:      fmt.Errorf("stage: %w", New(ErrCodeMissingModule, "test")),
			code:     ErrCodeMissingModule,
			expected: true,
		},
		{
			name: "inside joined errors",
			err: errors.Join(
				New(ErrCodeDuplicateRoute, "a"),
				New(ErrCodeDeepLinkPlaceholder, "b"),
			),
			code:     ErrCodeDeepLinkPlaceholder,
			expected: true,
		},
		{
			name:     "plain error",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidFeed,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidFeed,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeNavGraphCycle, "test"),
			expected: ErrCodeNavGraphCycle,
		},
		{
			name:     "wrapped Error",
			err:      fmt.Errorf("wrap: %w", New(ErrCodeGraphMembership, "test")),
			expected: ErrCodeGraphMembership,
		},
		{
			name:     "plain error",
			err:      errors.New("plain error"),
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeInvalidConfig, "friendly message"),
			expected: "friendly message",
		},
		{
			name:     "attributed Error",
			err:      New(ErrCodeStartCount, "no start").At("root", Position{}),
			expected: "root: no start",
		},
		{
			name:     "plain error",
			err:      errors.New("plain error"),
			expected: "plain error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestFlatten(t *testing.T) {
	a := New(ErrCodeDuplicateRoute, "a")
	b := New(ErrCodeStartCount, "b")
	c := errors.New("c")

	got := Flatten(errors.Join(a, errors.Join(b, c)))
	if len(got) != 3 {
		t.Fatalf("Flatten() returned %d errors, want 3", len(got))
	}
	if got[0] != a || got[1] != b || got[2] != c {
		t.Errorf("Flatten() = %v, want [a b c] in order", got)
	}

	if Flatten(nil) != nil {
		t.Error("Flatten(nil) should be nil")
	}
}
