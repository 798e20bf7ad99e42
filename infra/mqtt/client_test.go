package mqtt

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// helper to generate self-signed cert
func generateCert(t *testing.T) (certFile, keyFile, caFile string) {
	t.Helper()
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	tmpl := x509.Certificate{SerialNumber: big.NewInt(1), Subject: pkix.Name{CommonName: "test"}, NotBefore: time.Now(), NotAfter: time.Now().Add(time.Hour)}
	der, err := x509.CreateCertificate(rand.Reader, &tmpl, &tmpl, &priv.PublicKey, priv)
	require.NoError(t, err)
	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(priv)})

	dir := t.TempDir()
	certFile = filepath.Join(dir, "cert.pem")
	keyFile = filepath.Join(dir, "key.pem")
	caFile = filepath.Join(dir, "ca.pem")
	require.NoError(t, os.WriteFile(certFile, certPEM, 0o600))
	require.NoError(t, os.WriteFile(keyFile, keyPEM, 0o600))
	require.NoError(t, os.WriteFile(caFile, certPEM, 0o600))
	return
}

func TestLoadTLSConfig(t *testing.T) {
	cert, key, ca := generateCert(t)
	tlsCfg, err := Config{UseTLS: true, ClientCert: cert, ClientKey: key, CABundle: ca}.LoadTLSConfig()
	require.NoError(t, err)
	assert.NotEmpty(t, tlsCfg.Certificates)
	assert.NotNil(t, tlsCfg.RootCAs)

	_, err = Config{UseTLS: true, ClientCert: cert}.LoadTLSConfig()
	assert.Error(t, err)
}

func TestNewClientOptions(t *testing.T) {
	opts, err := NewClientOptions(Config{Broker: "tcp://localhost:1883", ClientID: "id", Username: "u", Password: "p"})
	require.NoError(t, err)
	assert.Equal(t, "u", opts.Username)
	assert.Equal(t, "p", opts.Password)
	assert.Equal(t, "id", opts.ClientID)
	assert.Equal(t, 10*time.Second, opts.ConnectTimeout)

	opts, err = NewClientOptions(Config{Broker: "tcp://localhost:1883", ConnectMS: 250, AuthMethod: "certificate", Username: "u"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(opts.ClientID, "sectionfeed-"))
	assert.Equal(t, 250*time.Millisecond, opts.ConnectTimeout)
	assert.Empty(t, opts.Username)

	_, err = NewClientOptions(Config{})
	assert.Error(t, err)
}

func TestLWTConfigured(t *testing.T) {
	mc := &mockClient{}
	useMock(t, mc)
	cfg := FetcherConfig{
		Config: Config{Broker: "tcp://localhost:1883", LWTTopic: "lwt", LWTPayload: "bye", LWTQoS: 1},
		Topic:  "feed/envelope",
	}
	f, err := NewFetcher(cfg)
	require.NoError(t, err)
	assert.True(t, mc.opts.WillEnabled)
	assert.Equal(t, "lwt", mc.opts.WillTopic)
	assert.Equal(t, "bye", string(mc.opts.WillPayload))

	require.NoError(t, f.Close())
	assert.False(t, mc.IsConnected())
	assert.Empty(t, mc.published)
}
