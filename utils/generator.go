package utils

import (
	"crypto/rand"
	"math/big"

	"github.com/Alexandr290700/online-tutor/models"
	"gorm.io/gorm"
)

const activationCodeLength = 17
const codeAlphabet = "qwertyuiopasdfghjklzxcvbnmQWERTYUIOPSDFGHJKLZXCVBNM1234567890"

// GenerateActivationCode returns a random code not currently assigned to any
// account.
func GenerateActivationCode(tx *gorm.DB) (string, error) {
	for {
		b := make([]byte, activationCodeLength)
		for i := range b {
			n, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeAlphabet))))
			if err != nil {
				return "", err
			}
			b[i] = codeAlphabet[n.Int64()]
		}
		code := string(b)

		var account models.Account
		err := tx.Where("activation_code = ?", code).First(&account).Error
		if err == gorm.ErrRecordNotFound {
			return code, nil
		}
		if err != nil {
			return "", err
		}
	}
}
