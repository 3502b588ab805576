package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ClientSeedBytes is the size of a generated client seed.
const ClientSeedBytes = 32

var ErrMalformedSeed = errors.New("malformed client seed")

// GenerateClientSeed returns a random 32-byte client seed as hex together
// with its SHA-256 commitment hash.
func GenerateClientSeed() (seed string, hash string, err error) {
	bytes := make([]byte, ClientSeedBytes)
	if _, err = rand.Read(bytes); err != nil {
		return "", "", fmt.Errorf("failed to read random bytes: %w", err)
	}

	seed = hex.EncodeToString(bytes)
	hash = HashSeed(seed)
	return
}

// SimulationClientSeed derives the client seed used in simulation mode:
// hex(sha256("client_<roundIndex>")).
func SimulationClientSeed(roundIndex int64) string {
	h := sha256.Sum256([]byte("client_" + strconv.FormatInt(roundIndex, 10)))
	return hex.EncodeToString(h[:])
}

// ValidateClientSeed accepts a non-empty, even-length hex string without a 0x prefix.
func ValidateClientSeed(seed string) error {
	if seed == "" {
		return fmt.Errorf("%w: empty", ErrMalformedSeed)
	}
	if _, err := hexutil.Decode("0x" + seed); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedSeed, err)
	}
	return nil
}

func HashSeed(seed string) string {
	h := sha256.Sum256([]byte(seed))
	return hex.EncodeToString(h[:])
}

func VerifySeed(seed, hash string) bool {
	return HashSeed(seed) == hash
}
