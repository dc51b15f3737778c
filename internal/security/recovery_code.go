package security

import "fmt"

// recoveryCodeAlphabet drops easily confused characters (0/O, 1/I/L).
const recoveryCodeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// NewRecoveryCode generates a one-time account recovery code in the
// PREGO-XXXX-XXXX-XXXX format. The plaintext is shown to the user once and
// only its bcrypt hash is stored.
func NewRecoveryCode() (string, error) {
	groups := make([]string, 3)
	for index := range groups {
		group, err := RandomString(4, recoveryCodeAlphabet)
		if err != nil {
			return "", err
		}
		groups[index] = group
	}
	return fmt.Sprintf("PREGO-%s-%s-%s", groups[0], groups[1], groups[2]), nil
}
