package promptpay

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	tagPayloadFormat   = "00"
	tagInitiation      = "01"
	tagMerchantAccount = "29"
	tagCurrency        = "53"
	tagAmount          = "54"
	tagCountry         = "58"
	tagCRC             = "63"

	aidPromptPay     = "A000000677010111"
	subTagAID        = "00"
	subTagMobile     = "01"
	subTagNationalID = "02"
	subTagEWallet    = "03"

	initiationStatic  = "11"
	initiationDynamic = "12"
	currencyTHB       = "764"
	countryTH         = "TH"
)

var ErrInvalidTarget = errors.New("promptpay id must be a mobile number, national id, or e-wallet id")

// Payload builds the EMVCo merchant-presented QR string for a PromptPay
// transfer. amountBaht of zero produces a reusable QR without an amount.
func Payload(target string, amountBaht int) (string, error) {
	account, err := merchantAccount(target)
	if err != nil {
		return "", err
	}
	if amountBaht < 0 {
		return "", fmt.Errorf("amount must be non-negative, got %d", amountBaht)
	}

	initiation := initiationStatic
	if amountBaht > 0 {
		initiation = initiationDynamic
	}

	var b strings.Builder
	b.WriteString(field(tagPayloadFormat, "01"))
	b.WriteString(field(tagInitiation, initiation))
	b.WriteString(field(tagMerchantAccount, account))
	b.WriteString(field(tagCountry, countryTH))
	b.WriteString(field(tagCurrency, currencyTHB))
	if amountBaht > 0 {
		b.WriteString(field(tagAmount, decimal.NewFromInt(int64(amountBaht)).StringFixed(2)))
	}
	b.WriteString(tagCRC + "04")

	body := b.String()
	return body + fmt.Sprintf("%04X", checksum([]byte(body))), nil
}

func merchantAccount(target string) (string, error) {
	digits := digitsOnly(target)
	var sub string
	switch {
	case len(digits) == 15:
		sub = field(subTagEWallet, digits)
	case len(digits) == 13:
		sub = field(subTagNationalID, digits)
	case len(digits) >= 9 && len(digits) <= 10:
		sub = field(subTagMobile, mobileTarget(digits))
	default:
		return "", ErrInvalidTarget
	}
	return field(subTagAID, aidPromptPay) + sub, nil
}

// mobileTarget converts a local number to 0066XXXXXXXXX.
func mobileTarget(digits string) string {
	local := strings.TrimPrefix(digits, "0")
	out := "66" + local
	if len(out) < 13 {
		out = strings.Repeat("0", 13-len(out)) + out
	}
	return out
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func field(tag, value string) string {
	return fmt.Sprintf("%s%02d%s", tag, len(value), value)
}

// checksum is CRC-16/CCITT-FALSE (poly 0x1021, init 0xFFFF).
func checksum(data []byte) uint16 {
	crc := uint16(0xFFFF)
	for _, b := range data {
		crc ^= uint16(b) << 8
		for i := 0; i < 8; i++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}
