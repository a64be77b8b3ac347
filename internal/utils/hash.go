package utils

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/argon2"
)

const (
	hashTime    = uint32(3)
	hashMemory  = uint32(64 * 1024)
	hashThreads = uint8(2)
	hashKeyLen  = uint32(32)
)

func GenerateHash(payload string) (string, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	hash := argon2.IDKey([]byte(payload), salt, hashTime, hashMemory, hashThreads, hashKeyLen)

	b64Salt := base64.RawStdEncoding.EncodeToString(salt)
	b64Hash := base64.RawStdEncoding.EncodeToString(hash)

	return fmt.Sprintf("$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		hashMemory, hashTime, hashThreads, b64Salt, b64Hash), nil
}

func VerifyHash(hashed, plain string) (bool, error) {
	var version int
	var memory, time uint32
	var threads uint8
	var b64Salt, b64Hash string

	n, err := fmt.Sscanf(hashed, "$argon2id$v=%d$m=%d,t=%d,p=%d$%s",
		&version, &memory, &time, &threads, &b64Salt)
	if err != nil || n != 5 {
		return false, fmt.Errorf("invalid hash format")
	}
	if idx := lastDollar(b64Salt); idx < 0 {
		return false, fmt.Errorf("invalid hash format")
	} else {
		b64Hash = b64Salt[idx+1:]
		b64Salt = b64Salt[:idx]
	}

	salt, err := base64.RawStdEncoding.DecodeString(b64Salt)
	if err != nil {
		return false, err
	}
	expected, err := base64.RawStdEncoding.DecodeString(b64Hash)
	if err != nil {
		return false, err
	}

	computed := argon2.IDKey([]byte(plain), salt, time, memory, threads, uint32(len(expected)))
	return subtle.ConstantTimeCompare(expected, computed) == 1, nil
}

func lastDollar(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '$' {
			return i
		}
	}
	return -1
}
