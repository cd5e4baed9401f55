package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/mail"
	"strings"

	echoapi "github.com/trezcool/gradebook/apps/api/echo"
	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/rick"
	emailsvc "github.com/trezcool/gradebook/services/email"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	conf    *core.Config
	out     io.Writer
	rickSvc *rick.Service
	mailSvc core.EmailService
	db      *sql.DB
}

func (cli *commandLine) printUsage() {
	_, _ = fmt.Fprintln(cli.out, "Usage:")
	_, _ = fmt.Fprintln(cli.out, "  ask -teacher ID [-json] QUESTION - answer a question about the teacher's class")
	_, _ = fmt.Fprintln(cli.out, "  digest -teacher ID -email EMAIL [-name NAME] - email the class digest to the teacher")
	_, _ = fmt.Fprintln(cli.out, "  token -teacher ID [-name NAME] [-email EMAIL] - issue an API token for the teacher")
	_, _ = fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS] - run goose migrations: up, up-by-one, up-to VERSION, down, down-to VERSION,")
	_, _ = fmt.Fprintln(cli.out, "    redo, reset, status, version, create NAME [go|sql], fix")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	askCmd := flag.NewFlagSet("ask", flag.ContinueOnError)
	askCmd.SetOutput(cli.out)
	askTeacher := askCmd.String("teacher", "", "The ID of the teacher asking.")
	askJSON := askCmd.Bool("json", false, "Print the full JSON response.")

	digestCmd := flag.NewFlagSet("digest", flag.ContinueOnError)
	digestCmd.SetOutput(cli.out)
	digestTeacher := digestCmd.String("teacher", "", "The ID of the teacher.")
	digestEmail := digestCmd.String("email", "", "The teacher's email address.")
	digestName := digestCmd.String("name", "", "The teacher's name.")

	tokenCmd := flag.NewFlagSet("token", flag.ContinueOnError)
	tokenCmd.SetOutput(cli.out)
	tokenTeacher := tokenCmd.String("teacher", "", "The ID of the teacher.")
	tokenName := tokenCmd.String("name", "", "The teacher's name.")
	tokenEmail := tokenCmd.String("email", "", "The teacher's email address.")

	switch args[1] {
	case "ask":
		if err := askCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		question := strings.Join(askCmd.Args(), " ")
		if *askTeacher == "" || strings.TrimSpace(question) == "" {
			askCmd.Usage()
			return errHelp
		}
		return cli.ask(core.CleanString(*askTeacher), question, *askJSON)
	case "digest":
		if err := digestCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *digestTeacher == "" || *digestEmail == "" {
			digestCmd.Usage()
			return errHelp
		}
		return cli.digest(core.CleanString(*digestTeacher), core.CleanString(*digestEmail, true /* lower */), core.CleanString(*digestName))
	case "token":
		if err := tokenCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *tokenTeacher == "" {
			tokenCmd.Usage()
			return errHelp
		}
		return cli.token(core.CleanString(*tokenTeacher), core.CleanString(*tokenName), core.CleanString(*tokenEmail, true /* lower */))
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) ask(teacherID, question string, asJSON bool) error {
	res, err := cli.rickSvc.HandleQuery(context.Background(), question, teacherID)
	if err != nil {
		return err
	}
	if !asJSON {
		_, err = fmt.Fprintln(cli.out, res.Response)
		return err
	}
	enc := json.NewEncoder(cli.out)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

func (cli *commandLine) digest(teacherID, email, name string) error {
	to, err := mail.ParseAddress(email)
	if err != nil {
		return core.NewValidationError(fmt.Errorf("invalid email %q", email), core.FieldError{Field: "email", Error: err.Error()})
	}
	if name != "" {
		to.Name = name
	}

	d, err := cli.rickSvc.Digest(context.Background(), teacherID)
	if err != nil {
		return err
	}
	cli.mailSvc.SendMessages(rick.DigestEmail(*to, d))
	emailsvc.Wait(cli.mailSvc)
	_, err = fmt.Fprintf(cli.out, "digest sent to %s\n", to.String())
	return err
}

func (cli *commandLine) token(teacherID, name, email string) error {
	token, err := echoapi.GenerateToken(cli.conf, echoapi.NewTeacherClaims(cli.conf, teacherID, name, email))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cli.out, token)
	return err
}
