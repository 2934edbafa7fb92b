package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrStaleSignature   = errors.New("webhook signature timestamp outside tolerance")
)

// DefaultTolerance bounds how old a signed notification may be before it is
// rejected as a replay.
const DefaultTolerance = 5 * time.Minute

// SignPayload produces the signature header for a webhook body:
// "t=<unix>,v1=<hex hmac of "<unix>.<body>">".
func SignPayload(payload []byte, secret string, at time.Time) string {
	ts := at.Unix()
	return fmt.Sprintf("t=%d,v1=%s", ts, computeSignature(payload, secret, ts))
}

// VerifySignature checks a webhook body against its signature header. The
// notification contents must not be trusted before this passes.
func VerifySignature(payload []byte, header, secret string, tolerance time.Duration) error {
	ts, sig, err := parseHeader(header)
	if err != nil {
		return err
	}

	age := time.Since(time.Unix(ts, 0))
	if math.Abs(age.Seconds()) > tolerance.Seconds() {
		return ErrStaleSignature
	}

	expected := computeSignature(payload, secret, ts)
	if !hmac.Equal([]byte(expected), []byte(sig)) {
		return ErrInvalidSignature
	}
	return nil
}

func computeSignature(payload []byte, secret string, ts int64) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", ts)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func parseHeader(header string) (int64, string, error) {
	var ts int64
	var sig string
	for _, part := range strings.Split(header, ",") {
		k, v, found := strings.Cut(part, "=")
		if !found {
			return 0, "", ErrInvalidSignature
		}
		switch k {
		case "t":
			parsed, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return 0, "", ErrInvalidSignature
			}
			ts = parsed
		case "v1":
			sig = v
		}
	}
	if ts == 0 || sig == "" {
		return 0, "", ErrInvalidSignature
	}
	return ts, sig, nil
}
