package k8s

import (
	"strconv"
	"time"
)

const day = 24 * time.Hour

// ParseAge converts a kubectl-style age such as "7d17h", "25h" or "128m" to a duration.
func ParseAge(age string) (time.Duration, error) {
	if age == "" {
		return 0, &InvalidAgeError{Age: age}
	}

	var total time.Duration

	rest := age
	for rest != "" {
		i := 0
		for i < len(rest) && rest[i] >= '0' && rest[i] <= '9' {
			i++
		}

		if i == 0 || i == len(rest) {
			return 0, &InvalidAgeError{Age: age}
		}

		n, err := strconv.Atoi(rest[:i])
		if err != nil {
			return 0, &InvalidAgeError{Age: age}
		}

		var unit time.Duration

		switch rest[i] {
		case 'd':
			unit = day
		case 'h':
			unit = time.Hour
		case 'm':
			unit = time.Minute
		case 's':
			unit = time.Second
		default:
			return 0, &InvalidAgeError{Age: age}
		}

		total += time.Duration(n) * unit
		rest = rest[i+1:]
	}

	return total, nil
}

func formatInt(n int) string {
	return strconv.Itoa(n)
}
