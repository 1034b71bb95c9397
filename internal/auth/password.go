package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters for interactive login (OWASP recommendation):
// 19 MiB memory, 2 iterations, 1 thread, 16-byte salt, 32-byte digest.
const (
	argonMemory  uint32 = 19 * 1024
	argonTime    uint32 = 2
	argonThreads uint8  = 1
	argonSaltLen        = 16
	argonKeyLen  uint32 = 32
)

var (
	// ErrEmptyPassword rejects empty passwords before any hashing work.
	ErrEmptyPassword = errors.New("password is empty")
	// ErrInvalidHash means the stored hash string could not be decoded.
	ErrInvalidHash = errors.New("invalid password hash format")
)

// HashPassword hashes a password with Argon2id and returns a PHC-format
// string that self-describes the algorithm, parameters, salt and digest:
//
//	$argon2id$v=19$m=19456,t=2,p=1$<salt>$<digest>
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}

	salt := make([]byte, argonSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	digest := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, argonMemory, argonTime, argonThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(digest),
	), nil
}

// dummyHash is a throwaway hash computed at startup so VerifyDummy costs the
// same as a real verification.
var dummyHash = func() string {
	h, err := HashPassword("dummy-password-for-timing")
	if err != nil {
		panic(err)
	}
	return h
}()

// VerifyDummy burns a full Argon2id verification against a fixed hash. The
// login path calls it for unknown emails so that "no such user" and "wrong
// password" take the same time.
func VerifyDummy(password string) {
	_, _ = VerifyPassword(password, dummyHash)
}

// VerifyPassword checks a password against a PHC-format Argon2id hash using
// a constant-time digest comparison. A malformed hash is an error; a
// non-matching password is (false, nil).
func VerifyPassword(password, encoded string) (bool, error) {
	if password == "" {
		return false, ErrEmptyPassword
	}

	salt, digest, time, memory, threads, err := decodeHash(encoded)
	if err != nil {
		return false, err
	}

	candidate := argon2.IDKey([]byte(password), salt, time, memory, threads, uint32(len(digest)))
	return subtle.ConstantTimeCompare(digest, candidate) == 1, nil
}

func decodeHash(encoded string) (salt, digest []byte, time, memory uint32, threads uint8, err error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return nil, nil, 0, 0, 0, ErrInvalidHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return nil, nil, 0, 0, 0, ErrInvalidHash
	}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return nil, nil, 0, 0, 0, ErrInvalidHash
	}

	salt, err = base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return nil, nil, 0, 0, 0, ErrInvalidHash
	}
	digest, err = base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(digest) == 0 {
		return nil, nil, 0, 0, 0, ErrInvalidHash
	}
	return salt, digest, time, memory, threads, nil
}
