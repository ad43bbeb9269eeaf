package service

import (
	"log"

	"github.com/vvwio/vvw/keys"
	"github.com/vvwio/vvw/models"
)

// keyService implements KeyService over package keys' dual Ed25519/X25519
// identity format.
type keyService struct{}

// NewKeyService creates a new key service instance
func NewKeyService() KeyService {
	return &keyService{}
}

// Generate creates a fresh identity and writes it out as basePath.priv and
// basePath.pub, per spec.md §4.1's keygen operation.
func (k *keyService) Generate(basePath string) (*models.KeygenResult, error) {
	priv, pub, err := keys.Generate()
	if err != nil {
		return nil, err
	}

	privPath := basePath + ".priv"
	pubPath := basePath + ".pub"

	if err := keys.SavePrivate(privPath, priv); err != nil {
		return nil, err
	}
	if err := keys.SavePublic(pubPath, pub); err != nil {
		return nil, err
	}

	fp := pub.Fingerprint()
	log.Printf("[INFO] Generate: wrote identity %s (fingerprint %s)", basePath, fp)
	return &models.KeygenResult{
		PrivatePath: privPath,
		PublicPath:  pubPath,
		Fingerprint: fp,
	}, nil
}

// LoadPrivate loads a private identity from path.
func (k *keyService) LoadPrivate(path string) (*keys.PrivateKey, error) {
	return keys.LoadPrivate(path)
}

// LoadPublic loads a public identity from path.
func (k *keyService) LoadPublic(path string) (*keys.PublicKey, error) {
	return keys.LoadPublic(path)
}
