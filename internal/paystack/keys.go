package paystack

import "fmt"

// Mode selects which API key pair is in use.
type Mode string

const (
	ModeTest Mode = "test"
	ModeLive Mode = "live"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeTest, ModeLive:
		return Mode(s), nil
	case "":
		return ModeTest, nil
	default:
		return "", fmt.Errorf("invalid paystack mode %q (want test or live)", s)
	}
}

// Credentials is one (public, secret) key pair.
type Credentials struct {
	PublicKey string
	SecretKey string
}

// Keys holds both key pairs; Mode picks the active one.
type Keys struct {
	Mode Mode
	Test Credentials
	Live Credentials
}

// Credentials returns the pair selected by Mode. Anything that is not
// explicitly live uses the test keys.
func (k Keys) Credentials() Credentials {
	if k.Mode == ModeLive {
		return k.Live
	}
	return k.Test
}
