package main

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"math/big"
	"os"

	"gopkg.in/yaml.v2"
)

// Config specifies the file format of config files.
type Config struct {
	ServerAddr  string     `yaml:"addr"`
	MetricsAddr string     `yaml:"metrics-addr"`
	TLSConfig   *TLSConfig `yaml:"tls"`
	tlsConfig   *tls.Config

	DatabaseFile string        `yaml:"db"`
	Params       *ParamsConfig `yaml:"params"`
}

// TLSConfig specifies the API server's TLS config. When TLS is enabled the
// server also starts requiring a valid client certificate.
type TLSConfig struct {
	Cert     string `yaml:"cert"`
	Key      string `yaml:"key"`
	ClientCA string `yaml:"client-ca"` // CA for validating client certificates.
}

// ParamsConfig holds the accumulator's public parameters, produced by the
// generate-params command.
type ParamsConfig struct {
	Generator string `yaml:"generator"` // Hex-encoded generator.
	Modulus   string `yaml:"modulus"`   // Hex-encoded modulus.

	generator *big.Int
	modulus   *big.Int
}

func ReadConfig(filename string) (*Config, error) {
	// Read from file and parse.
	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	var parsed Config
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		return nil, err
	}

	// Check that all required fields are populated.
	if parsed.ServerAddr == "" {
		return nil, fmt.Errorf("field not provided: addr")
	} else if parsed.DatabaseFile == "" {
		return nil, fmt.Errorf("field not provided: db")
	} else if parsed.Params == nil {
		return nil, fmt.Errorf("field not provided: params")
	} else if parsed.Params.Generator == "" {
		return nil, fmt.Errorf("field not provided: params.generator")
	} else if parsed.Params.Modulus == "" {
		return nil, fmt.Errorf("field not provided: params.modulus")
	}

	// Parse TLS config if necessary.
	if parsed.TLSConfig != nil {
		cert, err := tls.LoadX509KeyPair(parsed.TLSConfig.Cert, parsed.TLSConfig.Key)
		if err != nil {
			return nil, fmt.Errorf("failed to load TLS certificate/key: %v", err)
		}

		certPool := x509.NewCertPool()
		caCerts, err := os.ReadFile(parsed.TLSConfig.ClientCA)
		if err != nil {
			return nil, fmt.Errorf("failed to load TLS client CA: %v", err)
		} else if ok := certPool.AppendCertsFromPEM(caCerts); !ok {
			return nil, fmt.Errorf("no client CA certificates successfully parsed from file")
		}

		parsed.tlsConfig = &tls.Config{
			Certificates: []tls.Certificate{cert},
			ClientAuth:   tls.RequireAndVerifyClientCert,
			ClientCAs:    certPool,
		}
	}

	// Parse and sanity-check the accumulator parameters. The modulus must be
	// a product of two secret primes, which can't be checked here; what can
	// be checked is that the generator is a nonzero residue.
	var ok bool
	parsed.Params.generator, ok = new(big.Int).SetString(parsed.Params.Generator, 16)
	if !ok {
		return nil, fmt.Errorf("failed to parse params.generator")
	}
	parsed.Params.modulus, ok = new(big.Int).SetString(parsed.Params.Modulus, 16)
	if !ok {
		return nil, fmt.Errorf("failed to parse params.modulus")
	}
	if parsed.Params.modulus.Cmp(big.NewInt(1)) <= 0 {
		return nil, fmt.Errorf("params.modulus must be greater than one")
	} else if parsed.Params.generator.Sign() == 0 {
		return nil, fmt.Errorf("params.generator must be nonzero")
	} else if parsed.Params.generator.Cmp(parsed.Params.modulus) >= 0 {
		return nil, fmt.Errorf("params.generator must be less than params.modulus")
	}

	return &parsed, nil
}
