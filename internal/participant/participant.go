// Package participant keeps the doorprize registry: who can win and under
// which number.
package participant

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrInvalid         = errors.New("participant: name and number are required")
	ErrDuplicateNumber = errors.New("participant: number already registered")
	ErrNotFound        = errors.New("participant: number not registered")
)

// Participant is an entrant. Number is the identity key and is always
// compared as a trimmed string, so "07" and "7" are different entrants.
type Participant struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Number string `json:"number"`
}

// New validates the input and assigns a fresh ID.
func New(name, number string) (Participant, error) {
	name = strings.TrimSpace(name)
	number = strings.TrimSpace(number)
	if name == "" || number == "" {
		return Participant{}, ErrInvalid
	}
	return Participant{ID: uuid.NewString(), Name: name, Number: number}, nil
}

// Key is the trimmed number used for matching.
func (p Participant) Key() string {
	return strings.TrimSpace(p.Number)
}

func (p Participant) String() string {
	return fmt.Sprintf("%s (No. %s)", p.Name, p.Key())
}

// IndexOf returns the position of the participant whose trimmed number
// equals the trimmed number given, or -1.
func IndexOf(list []Participant, number string) int {
	number = strings.TrimSpace(number)
	if number == "" {
		return -1
	}
	for i, p := range list {
		if p.Key() == number {
			return i
		}
	}
	return -1
}
