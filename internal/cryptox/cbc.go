package cryptox

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"errors"
)

var (
	ErrCiphertextLength = errors.New("ciphertext is not a positive multiple of the block size")
	ErrPadding          = errors.New("invalid PKCS#7 padding")
)

// fixedIV is the all-zero initialization vector used for every token.
// Uniqueness of the ciphertext comes from the plaintext, which always
// carries a fresh qrId and timestamp. Both clients must keep this IV;
// switching to a random IV on one side breaks interoperability.
var fixedIV = make([]byte, aes.BlockSize)

// EncryptFixedIV encrypts plaintext with AES-256-CBC, PKCS#7 padding and the
// fixed zero IV. Identical plaintexts produce identical ciphertexts.
func EncryptFixedIV(key Key, plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, err
	}

	padded := pkcs7Pad(plaintext, aes.BlockSize)
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, fixedIV).CryptBlocks(out, padded)
	return out, nil
}

// DecryptFixedIV reverses EncryptFixedIV.
func DecryptFixedIV(key Key, ciphertext []byte) ([]byte, error) {
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, ErrCiphertextLength
	}

	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, err
	}

	out := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, fixedIV).CryptBlocks(out, ciphertext)
	return pkcs7Unpad(out, aes.BlockSize)
}

func pkcs7Pad(b []byte, blockSize int) []byte {
	n := blockSize - len(b)%blockSize
	return append(append(make([]byte, 0, len(b)+n), b...), bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(b []byte, blockSize int) ([]byte, error) {
	if len(b) == 0 || len(b)%blockSize != 0 {
		return nil, ErrPadding
	}
	n := int(b[len(b)-1])
	if n == 0 || n > blockSize || n > len(b) {
		return nil, ErrPadding
	}
	for _, v := range b[len(b)-n:] {
		if int(v) != n {
			return nil, ErrPadding
		}
	}
	return b[:len(b)-n], nil
}
