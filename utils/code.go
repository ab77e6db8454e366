package utils

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

const codeAttempts = 8

var ErrCodeSpaceExhausted = errors.New("no free code after retries")

// GenerateCode returns n random bytes hex-encoded in upper case.
func GenerateCode(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return strings.ToUpper(hex.EncodeToString(b)), nil
}

// OrderNumber formats ORD-YYYYMMDD-XXXXXXXXXX for the given day.
func OrderNumber(day time.Time) (string, error) {
	code, err := GenerateCode(5)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("ORD-%s-%s", day.Format("20060102"), code), nil
}

// TicketCode formats TKT-XXXXXXXXXXXX.
func TicketCode() (string, error) {
	code, err := GenerateCode(6)
	if err != nil {
		return "", err
	}
	return "TKT-" + code, nil
}

// UniqueCode draws codes from gen until one is not yet stored in column of m's table.
// The unique index on column still guards against a concurrent insert of the same code.
func UniqueCode(tx *gorm.DB, m interface{}, column string, gen func() (string, error)) (string, error) {
	for i := 0; i < codeAttempts; i++ {
		code, err := gen()
		if err != nil {
			return "", err
		}
		var count int64
		if err := tx.Model(m).Where(column+" = ?", code).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return code, nil
		}
	}
	return "", ErrCodeSpaceExhausted
}
