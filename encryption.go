package qpdf

import (
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"

	"github.com/wippyai/qpdf-go/engine"
	"github.com/wippyai/qpdf-go/errors"
)

// PrintPermission is the print permission of R3 and later revisions.
type PrintPermission int

const (
	PrintFull PrintPermission = iota
	PrintLow
	PrintNone
)

func (p PrintPermission) level() engine.Print {
	switch p {
	case PrintLow:
		return engine.PrintLow
	case PrintNone:
		return engine.PrintNone
	default:
		return engine.PrintFull
	}
}

// EncryptionParams is one of EncryptionR2, EncryptionR3, EncryptionR4 or
// EncryptionR6.
type EncryptionParams interface {
	// Revision is the security handler revision.
	Revision() int
	// MinimumVersion is the lowest PDF version the revision may be written as.
	MinimumVersion() string

	params() (*engine.Encryption, error)
}

// EncryptionR2 is 40-bit RC4. Passwords must be Latin-1 representable.
type EncryptionR2 struct {
	UserPassword  string
	OwnerPassword string
	AllowPrint    bool
	AllowModify   bool
	AllowExtract  bool
	AllowAnnotate bool
}

// EncryptionR3 is 128-bit RC4 with fine grained permissions.
type EncryptionR3 struct {
	UserPassword         string
	OwnerPassword        string
	AllowAccessibility   bool
	AllowExtract         bool
	AllowAssemble        bool
	AllowAnnotateAndForm bool
	AllowFormFilling     bool
	AllowModifyOther     bool
	AllowPrint           PrintPermission
}

// EncryptionR4 is 128-bit RC4 or AES, optionally leaving metadata in clear.
// RC4 needs PDF 1.5 and AES needs 1.6.
type EncryptionR4 struct {
	UserPassword         string
	OwnerPassword        string
	AllowAccessibility   bool
	AllowExtract         bool
	AllowAssemble        bool
	AllowAnnotateAndForm bool
	AllowFormFilling     bool
	AllowModifyOther     bool
	AllowPrint           PrintPermission
	EncryptMetadata      bool
	UseAES               bool
}

// EncryptionR6 is 256-bit AES. Passwords are UTF-8, normalized to NFKC.
type EncryptionR6 struct {
	UserPassword         string
	OwnerPassword        string
	AllowAccessibility   bool
	AllowExtract         bool
	AllowAssemble        bool
	AllowAnnotateAndForm bool
	AllowFormFilling     bool
	AllowModifyOther     bool
	AllowPrint           PrintPermission
	EncryptMetadata      bool
}

func (EncryptionR2) Revision() int { return 2 }
func (EncryptionR3) Revision() int { return 3 }
func (EncryptionR4) Revision() int { return 4 }
func (EncryptionR6) Revision() int { return 6 }

func (EncryptionR2) MinimumVersion() string { return "1.3" }
func (EncryptionR3) MinimumVersion() string { return "1.4" }
func (e EncryptionR4) MinimumVersion() string {
	if e.UseAES {
		return "1.6"
	}
	return "1.5"
}
func (EncryptionR6) MinimumVersion() string { return "1.7" }

func (e EncryptionR2) params() (*engine.Encryption, error) {
	user, owner, err := latin1Passwords(e.UserPassword, e.OwnerPassword)
	if err != nil {
		return nil, err
	}
	return &engine.Encryption{
		Revision:      2,
		UserPassword:  user,
		OwnerPassword: owner,
		AllowPrint:    e.AllowPrint,
		AllowModify:   e.AllowModify,
		AllowExtract:  e.AllowExtract,
		AllowAnnotate: e.AllowAnnotate,
	}, nil
}

func (e EncryptionR3) params() (*engine.Encryption, error) {
	user, owner, err := latin1Passwords(e.UserPassword, e.OwnerPassword)
	if err != nil {
		return nil, err
	}
	return &engine.Encryption{
		Revision:             3,
		UserPassword:         user,
		OwnerPassword:        owner,
		AllowAccessibility:   e.AllowAccessibility,
		AllowExtract:         e.AllowExtract,
		AllowAssemble:        e.AllowAssemble,
		AllowAnnotateAndForm: e.AllowAnnotateAndForm,
		AllowFormFilling:     e.AllowFormFilling,
		AllowModifyOther:     e.AllowModifyOther,
		PrintLevel:           e.AllowPrint.level(),
	}, nil
}

func (e EncryptionR4) params() (*engine.Encryption, error) {
	user, owner, err := latin1Passwords(e.UserPassword, e.OwnerPassword)
	if err != nil {
		return nil, err
	}
	return &engine.Encryption{
		Revision:             4,
		UserPassword:         user,
		OwnerPassword:        owner,
		AllowAccessibility:   e.AllowAccessibility,
		AllowExtract:         e.AllowExtract,
		AllowAssemble:        e.AllowAssemble,
		AllowAnnotateAndForm: e.AllowAnnotateAndForm,
		AllowFormFilling:     e.AllowFormFilling,
		AllowModifyOther:     e.AllowModifyOther,
		PrintLevel:           e.AllowPrint.level(),
		EncryptMetadata:      e.EncryptMetadata,
		UseAES:               e.UseAES,
	}, nil
}

func (e EncryptionR6) params() (*engine.Encryption, error) {
	user, owner, err := utf8Passwords(e.UserPassword, e.OwnerPassword)
	if err != nil {
		return nil, err
	}
	return &engine.Encryption{
		Revision:             6,
		UserPassword:         user,
		OwnerPassword:        owner,
		AllowAccessibility:   e.AllowAccessibility,
		AllowExtract:         e.AllowExtract,
		AllowAssemble:        e.AllowAssemble,
		AllowAnnotateAndForm: e.AllowAnnotateAndForm,
		AllowFormFilling:     e.AllowFormFilling,
		AllowModifyOther:     e.AllowModifyOther,
		PrintLevel:           e.AllowPrint.level(),
		EncryptMetadata:      e.EncryptMetadata,
	}, nil
}

// nilParams reports whether p is a nil pointer to one of the parameter
// types. The interface has an unexported method, so the switch is closed.
func nilParams(p EncryptionParams) bool {
	switch v := p.(type) {
	case *EncryptionR2:
		return v == nil
	case *EncryptionR3:
		return v == nil
	case *EncryptionR4:
		return v == nil
	case *EncryptionR6:
		return v == nil
	}
	return false
}

// latin1Passwords encodes passwords for the RC4-era handlers, which take
// raw bytes.
func latin1Passwords(user, owner string) (string, string, error) {
	enc := charmap.ISO8859_1.NewEncoder()
	out := [2]string{}
	for i, pw := range [2]string{user, owner} {
		if err := checkNUL(pw); err != nil {
			return "", "", err
		}
		s, err := enc.String(pw)
		if err != nil {
			return "", "", errors.New(errors.PhaseEncrypt, errors.KindInvalidParameter).
				Cause(err).
				Detail("password is not representable in Latin-1").
				Build()
		}
		out[i] = s
	}
	return out[0], out[1], nil
}

func utf8Passwords(user, owner string) (string, string, error) {
	for _, pw := range [2]string{user, owner} {
		if err := checkNUL(pw); err != nil {
			return "", "", err
		}
	}
	return norm.NFKC.String(user), norm.NFKC.String(owner), nil
}

func checkNUL(pw string) error {
	for i := 0; i < len(pw); i++ {
		if pw[i] == 0 {
			return errors.InvalidParameter(errors.PhaseEncrypt, "password contains NUL byte")
		}
	}
	return nil
}
