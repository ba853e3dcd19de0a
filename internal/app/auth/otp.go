package auth

import (
	"strings"
	"sync"
	"unicode/utf8"
)

// CodeLength is the number of OTP input slots.
const CodeLength = 6

// OtpInput is the fixed-length group of single-digit inputs with focus
// movement, modelled after a row of one-character text boxes.
type OtpInput struct {
	mu    sync.Mutex
	slots [CodeLength]string
	focus int
}

// Input sets slot i to value, keeping only its last character. A non-empty
// slot moves focus to the next slot unless it is the last one.
func (o *OtpInput) Input(i int, value string) {
	if i < 0 || i >= CodeLength {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if value != "" {
		r, _ := utf8.DecodeLastRuneInString(value)
		value = string(r)
	}
	o.slots[i] = value
	o.focus = i
	if value != "" && i < CodeLength-1 {
		o.focus = i + 1
	}
}

// Backspace clears slot i; on an already empty slot it moves focus back.
func (o *OtpInput) Backspace(i int) {
	if i < 0 || i >= CodeLength {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.slots[i] != "" {
		o.slots[i] = ""
		o.focus = i
		return
	}
	if i > 0 {
		o.focus = i - 1
	}
}

// Type enters each character of s at the focused slot, as a user typing would.
func (o *OtpInput) Type(s string) {
	for _, r := range s {
		o.Input(o.Focus(), string(r))
	}
}

// Focus returns the focused slot index.
func (o *OtpInput) Focus() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.focus
}

// FocusFirst moves focus to slot 0.
func (o *OtpInput) FocusFirst() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.focus = 0
}

// Slots returns a copy of the slot values.
func (o *OtpInput) Slots() [CodeLength]string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.slots
}

// Assemble concatenates the slots in order.
func (o *OtpInput) Assemble() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return strings.Join(o.slots[:], "")
}

// Reset clears every slot. Focus is left where it was.
func (o *OtpInput) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.slots = [CodeLength]string{}
}

// Submittable reports whether the assembled code is six decimal digits.
func (o *OtpInput) Submittable() bool {
	return ValidCode(o.Assemble())
}

// ValidCode reports whether code is exactly six decimal digits.
func ValidCode(code string) bool {
	if len(code) != CodeLength {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}
	return true
}
