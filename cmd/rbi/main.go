/*
** rbi - interactive R shell over rbridge
**
** Lines are evaluated as R source. Lines starting with '!' call R
** function through the bridge dispatcher, so arguments are converted the
** way Go callers see it. Lines starting with '@' load SQL query result
** into R data.frame.
 */
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	_ "github.com/mattn/go-sqlite3"
	"github.com/peterh/liner"

	"github.com/oruby/rbridge"
	"github.com/oruby/rbridge/dataframe"
	_ "github.com/oruby/rbridge/rscript"
	_ "github.com/oruby/rbridge/rsim"
)

type Args struct {
	backend string
	rscript string
	eline   string
	db      string
	config  string
	verbose bool
}

func usage() {
	usageMsg := []string{
		"switches:",
		"-backend name  R backend, one of " + strings.Join(rbridge.Backends(), ", "),
		"-R path        Rscript executable",
		"-e 'command'   one line of R, may be given as !name args",
		"-db file       sqlite database for @name query lines",
		"-config file   yaml config file, flags take precedence",
		"-v             trace round trips to R",
		"-version       print the version",
		"",
		"lines:",
		"R source           evaluated in global environment",
		"!name arg ...      call R function name; args are 1, 1.5, \"s\", true,",
		"                   nil, all, 1:3, 1:<3, -1:3, key=value or R variable",
		"@name query        load query result from -db into R variable name",
		"quit, exit         leave rbi",
	}

	fmt.Fprintf(flag.CommandLine.Output(), "Usage: %v [switches]\n", os.Args[0])
	for _, msg := range usageMsg {
		fmt.Fprintf(flag.CommandLine.Output(), "  %v\n", msg)
	}
}

// parseArgs parses command line and returns names of flags given on it
func parseArgs(args *Args, conf rbridge.Config) map[string]bool {
	flag.Usage = usage
	flag.StringVar(&args.backend, "backend", "rscript", "R backend")
	flag.StringVar(&args.rscript, "R", conf.Command, "Rscript executable")
	flag.StringVar(&args.eline, "e", "", "one line of R")
	flag.StringVar(&args.db, "db", "", "sqlite database for @name query lines")
	flag.StringVar(&args.config, "config", "", "yaml config file")
	flag.BoolVar(&args.verbose, "v", false, "trace round trips to R")
	version := flag.Bool("version", false, "print the version")

	flag.Parse()

	if *version {
		fmt.Println(rbridge.Description())
		os.Exit(0)
	}

	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

// shell holds state of running session
type shell struct {
	st *rbridge.State
	db *sql.DB
}

// run executes one input line and returns text to print
func (sh *shell) run(line string) (string, error) {
	line = strings.TrimSpace(line)

	switch {
	case line == "":
		return "", nil

	case strings.HasPrefix(line, "!"):
		name, args, err := parseDispatch(line[1:])
		if err != nil {
			return "", rbridge.EArgumentError("%v", err)
		}
		if args, err = resolveNames(sh.st, args); err != nil {
			return "", err
		}

		res, err := sh.st.ProcessMissing(name, false, args...)
		if err != nil {
			return "", err
		}
		if res.IsNone() {
			return "", nil
		}
		return inspect(res.Obj), nil

	case strings.HasPrefix(line, "@"):
		if sh.db == nil {
			return "", rbridge.EArgumentError("no database, start rbi with -db")
		}
		parts := strings.SplitN(strings.TrimSpace(line[1:]), " ", 2)
		if len(parts) != 2 {
			return "", rbridge.EArgumentError("usage: @name query")
		}
		df, err := dataframe.Load(context.Background(), sh.st, sh.db, parts[0], parts[1])
		if err != nil {
			return "", err
		}
		return inspect(df), nil
	}

	v, err := sh.st.Eval(line)
	if err != nil {
		return "", err
	}
	return inspect(sh.st.Build(v)), nil
}

// inspect formats R object for printing; values with no Go
// representation are shown by their class
func inspect(obj *rbridge.Object) string {
	v, err := obj.Go()
	if err == nil {
		return fmt.Sprintf("%#v", v)
	}

	class, err := obj.Class()
	if err != nil {
		return obj.String()
	}
	return "<" + strings.Join(class, ", ") + ">"
}

func main() {
	args := Args{}
	conf := rbridge.DefaultConfig()
	set := parseArgs(&args, conf)

	if args.config != "" {
		fc, err := loadConfig(args.config)
		if err == nil {
			err = fc.apply(&args, &conf, set)
		}
		if err != nil {
			log.Fatalf("%v: %v", os.Args[0], err)
		}
	}

	conf.Command = args.rscript
	if args.verbose {
		conf.Trace = log.New(os.Stderr, "rbi: ", log.Lmicroseconds)
	}

	st, err := rbridge.Open(args.backend, conf)
	if err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}
	defer st.Close()

	sh := &shell{st: st}
	if args.db != "" {
		db, err := sql.Open("sqlite3", args.db)
		if err != nil {
			st.Close()
			log.Fatalf("%v: %v", os.Args[0], err)
		}
		defer db.Close()
		sh.db = db
	}

	if args.eline != "" {
		out, err := sh.run(args.eline)
		if err != nil {
			st.Close()
			log.Fatalf("%v: %v", os.Args[0], err)
		}
		if out != "" {
			fmt.Println(out)
		}
		return
	}

	ln := liner.NewLiner()
	ln.SetCtrlCAborts(true)

	histPath, err := historyPath()
	if err == nil {
		if err := readHistory(ln, histPath); err != nil {
			log.Printf("%v: history: %v", os.Args[0], err)
		}
	}
	saveHistory := func() {
		if histPath != "" {
			writeHistory(ln, histPath)
		}
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGTERM, syscall.SIGHUP)
	go func() {
		<-c
		saveHistory()
		ln.Close()
		st.Close()
		os.Exit(1)
	}()

	repl(sh, ln, os.Stdout)

	saveHistory()
	ln.Close()
}

// lineReader reads one line of input and keeps history of entered
// lines. io.EOF ends the session.
type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(line string)
}

func repl(sh *shell, lr lineReader, w io.Writer) {
	for {
		line, err := lr.Prompt("> ")
		if err == liner.ErrPromptAborted {
			fmt.Fprintln(w)
			continue
		}
		if err != nil {
			fmt.Fprintln(w)
			return
		}

		if checkKeyword(line, "quit") || checkKeyword(line, "exit") {
			return
		}
		if strings.TrimSpace(line) != "" {
			lr.AppendHistory(line)
		}

		out, err := sh.run(line)
		if err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			continue
		}
		if out != "" {
			fmt.Fprintf(w, " => %s\n", out)
		}
	}
}

func checkKeyword(buf, word string) bool {
	return strings.TrimSpace(buf) == word
}
