package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/mvickers07/authgate"
)

// seedAccount is one entry in the optional YAML seed file:
//
//	accounts:
//	  - username: admin
//	    password: ChangeMe123!
//	    role: admin
type seedAccount struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
}

type seedFile struct {
	Accounts []seedAccount `yaml:"accounts"`
}

// seedUsers registers the accounts listed in path. Accounts that already
// exist are skipped, so re-running the server against the same database
// is safe.
func seedUsers(ctx context.Context, svc *authgate.Service, path string, log *logrus.Logger) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}

	var sf seedFile
	if err := yaml.Unmarshal(raw, &sf); err != nil {
		return fmt.Errorf("parse seed file: %w", err)
	}

	for _, acc := range sf.Accounts {
		role, ok := authgate.ParseRole(acc.Role)
		if !ok {
			return fmt.Errorf("seed account %q: unknown role %q", acc.Username, acc.Role)
		}
		_, err := svc.Register(ctx, acc.Username, acc.Password, role)
		switch {
		case err == nil:
			log.WithFields(logrus.Fields{"username": acc.Username, "role": role}).Info("seeded account")
		case errors.Is(err, authgate.ErrDuplicateUser):
			log.WithField("username", acc.Username).Debug("seed account already exists")
		default:
			return fmt.Errorf("seed account %q: %w", acc.Username, err)
		}
	}
	return nil
}
