package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/synacor/argon2id"
	"golang.org/x/term"
)

var command = flag.String("c", "hash-password", "specifies the command (hash-password)")

func main() {
	flag.Parse()

	switch *command {
	case "hash-password":
		password := getPassword()
		if password == "" {
			os.Exit(1)
		}

		hash, err := argon2id.DefaultHashPassword(password)
		if err != nil {
			logrus.WithError(err).Fatal("could not hash password")
		}

		fmt.Println(hash)
	default:
		logrus.Fatalf("unknown command: %s", *command)
	}
}

func getPassword() string {
	for {
		fmt.Print("Password: ")
		pwBytes, err := term.ReadPassword(0)
		if err != nil {
			continue
		}
		fmt.Println("")

		password := strings.TrimRight(string(pwBytes), "\r\n")

		if password == "" {
			return ""
		}

		if len(password) < 6 {
			_, _ = fmt.Fprintf(os.Stderr, "password must be 6 or more characters\n")
			continue
		}

		return password
	}
}
