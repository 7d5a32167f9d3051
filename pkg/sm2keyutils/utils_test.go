package sm2keyutils

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrivKeyPEMConversion(t *testing.T) {
	// Generate a private key. Convert it all the way to PEM and then back. Check if the products are as expected.
	privKey, err := GenerateKeyPair()
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	privKeyPem, err := ConvertPrivateKeyToPEM(privKey)
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}
	assert.Contains(t, string(privKeyPem), "PRIVATE KEY")

	parsedPrivKey, err := ConvertPEMToPrivateKey(privKeyPem)
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	assert.Equal(t, 0, privKey.D.Cmp(parsedPrivKey.D))
	assert.Equal(t, 0, privKey.X.Cmp(parsedPrivKey.X))
	assert.Equal(t, 0, privKey.Y.Cmp(parsedPrivKey.Y))
}

func TestPubKeyPEMConversion(t *testing.T) {
	privKey, err := GenerateKeyPair()
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	pubKeyPem, err := PublicKeyPEMOf(privKey)
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	parsedPubKey, err := ConvertPEMToPublicKey([]byte(pubKeyPem))
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	assert.Equal(t, 0, privKey.X.Cmp(parsedPubKey.X))
	assert.Equal(t, 0, privKey.Y.Cmp(parsedPubKey.Y))
}

func TestConvertGarbageFails(t *testing.T) {
	_, err := ConvertPEMToPrivateKey([]byte("not a pem"))
	assert.Error(t, err)

	_, err = ConvertPEMToPublicKey([]byte("not a pem"))
	assert.Error(t, err)
}

func TestLoadPrivateKeyFromFile(t *testing.T) {
	privKey, err := GenerateKeyPair()
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	privKeyPem, err := ConvertPrivateKeyToPEM(privKey)
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	path := filepath.Join(t.TempDir(), "sk")
	if isNoError := assert.NoError(t, ioutil.WriteFile(path, privKeyPem, 0600)); !isNoError {
		t.FailNow()
	}

	loaded, err := LoadPrivateKeyFromFile(path)
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}
	assert.Equal(t, 0, privKey.D.Cmp(loaded.D))

	_, err = LoadPrivateKeyFromFile(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
