package password

import "unicode"

// Strength is the classifier tier for a candidate password.
type Strength uint8

const (
	// Weak passwords are rejected at registration.
	Weak Strength = iota
	// Medium is the minimum acceptable tier.
	Medium
	// Strong passwords satisfy every scored criterion.
	Strong
)

func (s Strength) String() string {
	switch s {
	case Weak:
		return "weak"
	case Medium:
		return "medium"
	case Strong:
		return "strong"
	default:
		return "unknown"
	}
}

// Policy acceptability bounds. Lengths are byte lengths, matching the
// hashing layer.
const (
	MinLength = 6
	MaxLength = 50
)

// Classify scores a password against six independent criteria: length
// thresholds at 8 and 12 bytes, and presence of lowercase, uppercase,
// digit, and symbol characters. Each criterion only adds points, so
// adding length or a new character class never downgrades the tier.
//
//	score <= 2 -> Weak
//	score <= 4 -> Medium
//	otherwise  -> Strong
func Classify(password string) Strength {
	score := 0

	if len(password) >= 8 {
		score++
	}
	if len(password) >= 12 {
		score++
	}

	var lower, upper, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		default:
			symbol = true
		}
	}

	if lower {
		score++
	}
	if upper {
		score++
	}
	if digit {
		score++
	}
	if symbol {
		score++
	}

	switch {
	case score <= 2:
		return Weak
	case score <= 4:
		return Medium
	default:
		return Strong
	}
}

// IsAcceptable reports whether a password may be registered: within the
// length bounds, containing at least one letter and one digit, and
// classified above Weak.
func IsAcceptable(password string) bool {
	if len(password) < MinLength || len(password) > MaxLength {
		return false
	}

	var letter, digit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !letter || !digit {
		return false
	}

	return Classify(password) > Weak
}

// Feedback lists the unmet criteria for a candidate password, in a fixed
// order suitable for direct display.
func Feedback(password string) []string {
	var tips []string

	if len(password) < 8 {
		tips = append(tips, "use at least 8 characters")
	}

	var lower, upper, digit bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}

	if !lower {
		tips = append(tips, "add lowercase letters")
	}
	if !upper {
		tips = append(tips, "add uppercase letters")
	}
	if !digit {
		tips = append(tips, "add numbers")
	}

	return tips
}
