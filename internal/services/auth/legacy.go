package auth

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/crypto/scrypt"
)

// Hashes imported from the old user registry are in the
// "method$salt$hexdigest" format, where method is one of
// "pbkdf2:<digest>[:<iterations>]" or "scrypt:<n>:<r>:<p>".

const defaultPBKDF2Iterations = 600000

var errUnknownHashMethod = errors.New("unknown password hash method")

// checkLegacyHash reports whether password matches encoded
func checkLegacyHash(encoded, password string) (bool, error) {
	parts := strings.SplitN(encoded, "$", 3)
	if len(parts) != 3 {
		return false, errUnknownHashMethod
	}
	method, salt, digest := parts[0], parts[1], parts[2]

	want, err := hex.DecodeString(digest)
	if err != nil {
		return false, fmt.Errorf("decoding digest: %w", err)
	}
	if len(want) == 0 {
		return false, fmt.Errorf("%w: empty digest", errUnknownHashMethod)
	}

	got, err := deriveLegacyKey(method, []byte(salt), []byte(password), len(want))
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}

func deriveLegacyKey(method string, salt, password []byte, keyLen int) ([]byte, error) {
	args := strings.Split(method, ":")
	switch args[0] {
	case "pbkdf2":
		if len(args) < 2 {
			return nil, errUnknownHashMethod
		}
		h, ok := pbkdf2Digest(args[1])
		if !ok {
			return nil, fmt.Errorf("%w: digest %q", errUnknownHashMethod, args[1])
		}
		iterations := defaultPBKDF2Iterations
		if len(args) > 2 {
			n, err := strconv.Atoi(args[2])
			if err != nil || n <= 0 {
				return nil, fmt.Errorf("%w: iterations %q", errUnknownHashMethod, args[2])
			}
			iterations = n
		}
		return pbkdf2.Key(password, salt, iterations, keyLen, h), nil

	case "scrypt":
		if len(args) != 4 {
			return nil, errUnknownHashMethod
		}
		var params [3]int
		for i, raw := range args[1:] {
			v, err := strconv.Atoi(raw)
			if err != nil || v <= 0 {
				return nil, fmt.Errorf("%w: scrypt parameter %q", errUnknownHashMethod, raw)
			}
			params[i] = v
		}
		return scrypt.Key(password, salt, params[0], params[1], params[2], keyLen)
	}
	return nil, errUnknownHashMethod
}

func pbkdf2Digest(name string) (func() hash.Hash, bool) {
	switch name {
	case "sha1":
		return sha1.New, true
	case "sha256":
		return sha256.New, true
	case "sha512":
		return sha512.New, true
	}
	return nil, false
}
