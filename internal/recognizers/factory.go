// Copyright PII Sentry Contributors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package recognizers assembles the predefined recognizer set. Each detector
// lives in its own subpackage; this factory is the single place that knows
// them all and wires the shared context enhancer through.
package recognizers

import (
	"fmt"

	"pii-sentry/internal/recognizer"
	"pii-sentry/internal/recognizers/creditcard"
	"pii-sentry/internal/recognizers/crypto"
	"pii-sentry/internal/recognizers/email"
	"pii-sentry/internal/recognizers/iban"
	"pii-sentry/internal/recognizers/ipaddress"
	"pii-sentry/internal/recognizers/ner"
	"pii-sentry/internal/recognizers/phone"
	"pii-sentry/internal/recognizers/remote"
	"pii-sentry/internal/recognizers/ussn"
)

// Names of the predefined recognizers, as accepted in configuration.
const (
	NameCreditCard = "credit_card"
	NameIban       = "iban"
	NameEmail      = "email"
	NameIPAddress  = "ip_address"
	NamePhone      = "phone"
	NameUsSsn      = "us_ssn"
	NameCrypto     = "crypto"
	NameNer        = "ner"
)

// AllNames lists every predefined recognizer in registration order.
func AllNames() []string {
	return []string{
		NameCreditCard,
		NameIban,
		NameEmail,
		NameIPAddress,
		NamePhone,
		NameUsSsn,
		NameCrypto,
		NameNer,
	}
}

// BuildRecognizerSet constructs the predefined recognizers named in enabled,
// in registration order. An empty enabled list means all of them. Unknown
// names are an error: a typo in configuration should not silently disable a
// detector.
func BuildRecognizerSet(enabled []string, enh recognizer.ContextEnhancer) ([]recognizer.EntityRecognizer, error) {
	builders := map[string]func() recognizer.EntityRecognizer{
		NameCreditCard: func() recognizer.EntityRecognizer { return creditcard.New(enh) },
		NameIban:       func() recognizer.EntityRecognizer { return iban.New(enh) },
		NameEmail:      func() recognizer.EntityRecognizer { return email.New(enh) },
		NameIPAddress:  func() recognizer.EntityRecognizer { return ipaddress.New(enh) },
		NamePhone:      func() recognizer.EntityRecognizer { return phone.New(enh) },
		NameUsSsn:      func() recognizer.EntityRecognizer { return ussn.New(enh) },
		NameCrypto:     func() recognizer.EntityRecognizer { return crypto.New(enh) },
		NameNer:        func() recognizer.EntityRecognizer { return ner.New() },
	}

	names := enabled
	if len(names) == 0 {
		names = AllNames()
	}

	seen := make(map[string]bool, len(names))
	set := make([]recognizer.EntityRecognizer, 0, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true

		build, ok := builders[name]
		if !ok {
			return nil, fmt.Errorf("unknown recognizer %q", name)
		}
		set = append(set, build())
	}
	return set, nil
}

// BuildRemoteRecognizers constructs remote recognizers from configuration.
func BuildRemoteRecognizers(configs []remote.Config) ([]recognizer.EntityRecognizer, error) {
	set := make([]recognizer.EntityRecognizer, 0, len(configs))
	for _, cfg := range configs {
		rec, err := remote.New(cfg)
		if err != nil {
			return nil, err
		}
		set = append(set, rec)
	}
	return set, nil
}
