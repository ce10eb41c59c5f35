// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package validate

import (
	"strings"

	jschema "github.com/santhosh-tekuri/jsonschema/v6"
)

const (
	maxEmailLength  = 254
	maxLocalLength  = 64
	maxDomainLabel  = 63
	minDomainLabels = 2
)

// validateEmail replaces the compiler's RFC 5321 check with a stricter one:
// an unquoted dot-atom local part and a DNS domain of at least two labels
// ending in an alphabetic TLD. IP literals are rejected.
func validateEmail(v any) error {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	if len(s) > maxEmailLength {
		return jschema.LocalizableError("more than %d characters long", maxEmailLength)
	}

	at := strings.LastIndexByte(s, '@')
	if at == -1 {
		return jschema.LocalizableError("missing @")
	}
	local, domain := s[:at], s[at+1:]

	if err := checkLocalPart(local); err != nil {
		return err
	}
	return checkDomain(domain)
}

func checkLocalPart(local string) error {
	switch {
	case local == "":
		return jschema.LocalizableError("empty local part")
	case len(local) > maxLocalLength:
		return jschema.LocalizableError("local part more than %d characters long", maxLocalLength)
	case strings.HasPrefix(local, ".") || strings.HasSuffix(local, "."):
		return jschema.LocalizableError("local part starts or ends with dot")
	case strings.Contains(local, ".."):
		return jschema.LocalizableError("consecutive dots")
	}
	for _, ch := range local {
		if !isAtext(ch) && ch != '.' {
			return jschema.LocalizableError("invalid character %q in local part", ch)
		}
	}
	return nil
}

func checkDomain(domain string) error {
	if strings.HasPrefix(domain, "[") {
		return jschema.LocalizableError("IP literal domains are not allowed")
	}

	labels := strings.Split(domain, ".")
	if len(labels) < minDomainLabels {
		return jschema.LocalizableError("domain needs at least %d segments", minDomainLabels)
	}
	for _, label := range labels {
		if err := checkLabel(label); err != nil {
			return err
		}
	}

	tld := labels[len(labels)-1]
	if len(tld) < 2 {
		return jschema.LocalizableError("top-level domain too short")
	}
	for _, ch := range tld {
		if !isLetter(ch) {
			return jschema.LocalizableError("top-level domain must be alphabetic")
		}
	}
	return nil
}

func checkLabel(label string) error {
	switch {
	case label == "":
		return jschema.LocalizableError("empty domain segment")
	case len(label) > maxDomainLabel:
		return jschema.LocalizableError("domain segment more than %d characters long", maxDomainLabel)
	case strings.HasPrefix(label, "-") || strings.HasSuffix(label, "-"):
		return jschema.LocalizableError("domain segment starts or ends with hyphen")
	}
	for _, ch := range label {
		if !isLetter(ch) && !isDigit(ch) && ch != '-' {
			return jschema.LocalizableError("invalid character %q in domain", ch)
		}
	}
	return nil
}

func isLetter(ch rune) bool { return ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' }

func isDigit(ch rune) bool { return ch >= '0' && ch <= '9' }

func isAtext(ch rune) bool {
	return isLetter(ch) || isDigit(ch) || strings.ContainsRune("!#$%&'*+-/=?^_`{|}~", ch)
}
