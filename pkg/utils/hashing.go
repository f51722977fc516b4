package utils

import "golang.org/x/crypto/bcrypt"

func HashSecret(secret string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(secret), 10)
	return string(bytes), err
}

func CompareSecret(hashedSecret string, plainSecret string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedSecret), []byte(plainSecret))
}
