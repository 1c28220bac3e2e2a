package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const numberAttempts = 5

// NumberFunc returns a document number such as ORD-042317.
type NumberFunc func(prefix string) string

func RandomNumber(prefix string) string {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		panic(err)
	}
	return fmt.Sprintf("%s-%06d", prefix, n.Int64())
}
