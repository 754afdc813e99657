package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWelcomeEmailHTML_EscapesDisplayName(t *testing.T) {
	body := welcomeEmailHTML(`<img src=x onerror=alert(1)> "Bob"`)

	assert.NotContains(t, body, "<img")
	assert.Contains(t, body, "&lt;img src=x onerror=alert(1)&gt; &#34;Bob&#34;")
}

func TestWelcomeEmailHTML_PlainNamePassesThrough(t *testing.T) {
	body := welcomeEmailHTML("Alice")

	assert.Contains(t, body, "<strong>Alice</strong>")
}
