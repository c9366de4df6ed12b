// Package domain defines the call-site descriptors supplied with every
// extern invocation: evaluation domain, stage, qualification and modulus.
//
// Descriptors are immutable once built and safe to share between
// concurrent calls.
package domain

import (
	"strings"

	"github.com/wippyai/zksc-ffi/errors"
)

// Domain identifies a party view. Domains are totally ordered
// Public < Verifier < Prover; data tagged with a domain is observable in
// that domain and every domain above it.
type Domain uint8

const (
	Public Domain = iota
	Verifier
	Prover
)

var domainNames = [...]string{
	Public:   "public",
	Verifier: "verifier",
	Prover:   "prover",
}

func (d Domain) String() string {
	if int(d) < len(domainNames) {
		return "@" + domainNames[d]
	}
	return "@invalid"
}

// VisibleIn reports whether data tagged d can be observed while executing
// in the current domain.
func (d Domain) VisibleIn(current Domain) bool {
	return d <= current
}

// ParseDomain accepts "public", "verifier" or "prover", with or without a
// leading '@'.
func ParseDomain(s string) (Domain, error) {
	name := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "@")
	for i, n := range domainNames {
		if n == name {
			return Domain(i), nil
		}
	}
	return 0, errors.InvalidInput(errors.PhaseConfig, "unknown domain "+s)
}

// Stage separates pre-processing values from runtime values.
type Stage uint8

const (
	Pre Stage = iota
	Post
)

func (s Stage) String() string {
	switch s {
	case Pre:
		return "$pre"
	case Post:
		return "$post"
	default:
		return "$invalid"
	}
}

// ParseStage accepts "pre" or "post", with or without a leading '$'.
func ParseStage(s string) (Stage, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "$") {
	case "pre":
		return Pre, nil
	case "post":
		return Post, nil
	default:
		return 0, errors.InvalidInput(errors.PhaseConfig, "unknown stage "+s)
	}
}

// Qualified describes how a generic value is represented at a call site:
// its stage and the domain it lives in.
type Qualified struct {
	Stage  Stage
	Domain Domain
}

func (q Qualified) String() string {
	return q.Stage.String() + " " + q.Domain.String()
}
