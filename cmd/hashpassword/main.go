// Command hashpassword reads a password without echo and prints its bcrypt
// hash, ready to be stored in users.password_hash.
package main

import (
	"bytes"
	"fmt"
	"log"
	"os"

	"github.com/licitacrm/licitacrm/internal/common"
	"github.com/licitacrm/licitacrm/internal/server/auth"
	"golang.org/x/term"
)

func main() {
	fd := int(os.Stdin.Fd())

	fmt.Fprint(os.Stderr, "Password: ")
	pw, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		log.Fatalf("read password: %v", err)
	}
	defer common.WipeByteArray(pw)

	fmt.Fprint(os.Stderr, "Repeat: ")
	again, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		log.Fatalf("read password: %v", err)
	}
	defer common.WipeByteArray(again)

	if len(pw) == 0 || !bytes.Equal(pw, again) {
		log.Fatal("passwords are empty or do not match")
	}

	hash, err := auth.HashPassword(pw)
	if err != nil {
		log.Fatalf("%v", err)
	}

	fmt.Println(hash)
}
