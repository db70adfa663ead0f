package points

import (
	"crypto/rand"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateTransactionCode returns a collision-resistant ledger code of the
// form TXN-<base36 millisecond timestamp>-<6 char random>, uppercased.
func GenerateTransactionCode() (string, error) {
	ts := strings.ToUpper(strconv.FormatInt(time.Now().UnixMilli(), 36))

	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("transaction code entropy: %w", err)
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}

	return fmt.Sprintf("TXN-%s-%s", ts, string(buf)), nil
}
