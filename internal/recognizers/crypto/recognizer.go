// Copyright PII Sentry Contributors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package crypto detects Bitcoin wallet addresses (legacy Base58Check P2PKH
// and P2SH forms) and validates them by decoding the Base58 payload and
// verifying its double-SHA256 checksum.
package crypto

import (
	"bytes"
	"crypto/sha256"
	"math/big"

	"pii-sentry/internal/recognizer"
)

// Entity is the PII type this recognizer emits.
const Entity = "CRYPTO"

// Legacy addresses start with 1 or 3 and use the Base58 alphabet, which
// excludes 0, O, I and l.
const base58Address = `\b[13][a-km-zA-HJ-NP-Z1-9]{26,33}\b`

// New builds the crypto wallet recognizer.
func New(enh recognizer.ContextEnhancer) *recognizer.PatternRecognizer {
	r, err := recognizer.NewPatternRecognizer(recognizer.PatternConfig{
		Name:     "CryptoRecognizer",
		Entity:   Entity,
		Language: "en",
		Patterns: []recognizer.Pattern{
			recognizer.NewCaseSensitivePattern("Crypto (medium)", 0.5, base58Address),
		},
		ContextWords: []string{"wallet", "btc", "bitcoin", "crypto"},
		Checksum:     Base58Check,
		Enhancer:     enh,
	})
	if err != nil {
		panic(err)
	}
	return r
}

const base58Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

var base58Index = func() [256]int8 {
	var idx [256]int8
	for i := range idx {
		idx[i] = -1
	}
	for i := 0; i < len(base58Alphabet); i++ {
		idx[base58Alphabet[i]] = int8(i)
	}
	return idx
}()

// Base58Check decodes a Base58 string and verifies that the last four bytes
// equal the first four bytes of sha256(sha256(payload)). Characters outside
// the alphabet or a too-short payload fail closed.
func Base58Check(sanitized string) bool {
	if len(sanitized) < 25 {
		return false
	}

	value := new(big.Int)
	radix := big.NewInt(58)
	for i := 0; i < len(sanitized); i++ {
		digit := base58Index[sanitized[i]]
		if digit < 0 {
			return false
		}
		value.Mul(value, radix)
		value.Add(value, big.NewInt(int64(digit)))
	}

	decoded := value.Bytes()
	// Leading '1' characters encode leading zero bytes.
	for i := 0; i < len(sanitized) && sanitized[i] == '1'; i++ {
		decoded = append([]byte{0}, decoded...)
	}
	if len(decoded) < 5 {
		return false
	}

	payload := decoded[:len(decoded)-4]
	checksum := decoded[len(decoded)-4:]

	first := sha256.Sum256(payload)
	second := sha256.Sum256(first[:])
	return bytes.Equal(second[:4], checksum)
}
