package main

import (
	"fmt"
	"io/ioutil"
	"os"
	"path"

	"gitee.com/czyczk/learnledger/pkg/sm2keyutils"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// generateKeys generates an SM2 key pair for each name. The private key is saved as `<name>/sk` and the public key as `<name>/<name>.pem`.
func generateKeys(dirKeys string, names []string) error {
	// Exit if the dir exists
	if _, err := os.Stat(dirKeys); err == nil {
		return fmt.Errorf("the sm2 keys are already generated. Delete the folder first before running again")
	}

	if err := os.MkdirAll(dirKeys, 0755); err != nil {
		return errors.Wrap(err, "cannot create the key folder")
	}

	for _, name := range names {
		privKey, err := sm2keyutils.GenerateKeyPair()
		if err != nil {
			return errors.Wrapf(err, "cannot generate a private key for '%v'", name)
		}

		if err = os.MkdirAll(path.Join(dirKeys, name), 0755); err != nil {
			return errors.Wrapf(err, "cannot create a folder for '%v'", name)
		}

		// Private key
		privKeyPem, err := sm2keyutils.ConvertPrivateKeyToPEM(privKey)
		if err != nil {
			return errors.Wrapf(err, "cannot encode the private key for '%v'", name)
		}
		if err = ioutil.WriteFile(path.Join(dirKeys, name, "sk"), privKeyPem, 0600); err != nil {
			return errors.Wrapf(err, "cannot save the private key for '%v'", name)
		}

		// Public key
		pubKeyPem, err := sm2keyutils.ConvertPublicKeyToPEM(&privKey.PublicKey)
		if err != nil {
			return errors.Wrapf(err, "cannot encode the public key for '%v'", name)
		}
		if err = ioutil.WriteFile(path.Join(dirKeys, name, name+".pem"), pubKeyPem, 0644); err != nil {
			return errors.Wrapf(err, "cannot save the public key for '%v'", name)
		}

		log.Infof("Generated keys for '%v'.", name)
	}

	return nil
}
