package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	qpdf "github.com/wippyai/qpdf-go"
)

func main() {
	var (
		inFile          = flag.String("in", "", "Path to input PDF")
		password        = flag.String("password", "", "Password of an encrypted input")
		prompt          = flag.Bool("prompt", false, "Read the password from the terminal")
		info            = flag.Bool("info", false, "Print document information")
		pages           = flag.Bool("pages", false, "List pages")
		objRef          = flag.String("obj", "", "Dump indirect object (\"id gen\")")
		resolved        = flag.Bool("resolved", false, "Dump -obj with indirection resolved")
		outFile         = flag.String("out", "", "Rewrite the document to this path")
		linearize       = flag.Bool("linearize", false, "Linearize the output")
		forceVersion    = flag.String("force-version", "", "Force the output PDF version")
		minVersion      = flag.String("min-version", "", "Minimum output PDF version")
		decode          = flag.String("decode", "", "Stream decode level: none|generalized|specialized|all")
		objstm          = flag.String("objstm", "", "Object streams: disable|preserve|generate")
		deterministicID = flag.Bool("deterministic-id", false, "Derive /ID from the output contents")
		interactive     = flag.Bool("i", false, "Interactive object browser")
	)
	flag.Parse()

	if *inFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: qpdf-inspect -in <file.pdf> [-info] [-pages] [-obj \"id gen\"]")
		fmt.Fprintln(os.Stderr, "       qpdf-inspect -in <file.pdf> -out <out.pdf> [-linearize] [-force-version 1.7]")
		fmt.Fprintln(os.Stderr, "       qpdf-inspect -in <file.pdf> -i  (interactive mode)")
		os.Exit(1)
	}

	pw := *password
	if *prompt {
		var err error
		if pw, err = readPassword(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	doc, err := qpdf.ReadFile(*inFile, qpdf.WithPassword(pw))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer doc.Close()

	if *interactive {
		if err := runInteractive(doc); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *info || (!*pages && *objRef == "" && *outFile == "") {
		printInfo(doc)
	}
	if *pages {
		if err := printPages(doc); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	if *objRef != "" {
		if err := dumpObject(doc, *objRef, *resolved); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	if *outFile != "" {
		w, err := configureWriter(doc, *linearize, *deterministicID, *forceVersion, *minVersion, *decode, *objstm)
		if err == nil {
			err = w.Write(*outFile)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", *outFile)
	}

	for _, w := range doc.Warnings() {
		fmt.Fprintf(os.Stderr, "warning: %v\n", w)
	}
}

func readPassword() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("-prompt needs a terminal on stdin")
	}
	fmt.Fprint(os.Stderr, "Password: ")
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(b), nil
}

func printInfo(doc *qpdf.Document) {
	fmt.Printf("File: %s\n", doc.Description())
	fmt.Printf("libqpdf: %s\n", qpdf.LibraryVersion())
	fmt.Printf("PDF version: %s", doc.Version())
	if lvl := doc.ExtensionLevel(); lvl > 0 {
		fmt.Printf(" (extension level %d)", lvl)
	}
	fmt.Println()
	if n, err := doc.NumPages(); err == nil {
		fmt.Printf("Pages: %d\n", n)
	}
	fmt.Printf("Linearized: %v\n", doc.IsLinearized())
	fmt.Printf("Encrypted: %v\n", doc.IsEncrypted())
	if doc.IsEncrypted() {
		p := doc.Permissions()
		fmt.Printf("  print: low=%v high=%v\n", p.PrintLowRes, p.PrintHighRes)
		fmt.Printf("  extract: %v  accessibility: %v\n", p.ExtractAll, p.Accessibility)
		fmt.Printf("  modify: assembly=%v form=%v annotation=%v other=%v\n",
			p.ModifyAssembly, p.ModifyForm, p.ModifyAnnotation, p.ModifyOther)
	}
	for _, key := range []string{"/Title", "/Author", "/Subject", "/Producer", "/Creator"} {
		if v, ok := doc.InfoKey(key); ok {
			fmt.Printf("%s: %s\n", strings.TrimPrefix(key, "/"), v)
		}
	}
}

func printPages(doc *qpdf.Document) error {
	pages, err := doc.Pages()
	if err != nil {
		return err
	}
	for i, p := range pages {
		box := ""
		if mb, ok := p.Get("MediaBox"); ok {
			box = mb.String()
		}
		fmt.Printf("%4d  %d %d R  %s\n", i+1, p.ID(), p.Generation(), box)
		p.Release()
	}
	return nil
}

func dumpObject(doc *qpdf.Document, ref string, resolved bool) error {
	id, gen, err := parseRef(ref)
	if err != nil {
		return err
	}
	obj, ok := doc.ObjectByID(id, gen)
	if !ok {
		return fmt.Errorf("object %d %d not found", id, gen)
	}
	defer obj.Release()

	text := obj.String()
	if resolved {
		if text, err = obj.UnparseResolved(); err != nil {
			return err
		}
	}
	fmt.Printf("%d %d obj (%s)\n%s\n", id, gen, obj.Type(), text)
	return nil
}

// parseRef accepts "id gen", "id gen R" or a bare "id".
func parseRef(s string) (int, int, error) {
	fields := strings.Fields(s)
	if len(fields) == 3 && fields[2] == "R" {
		fields = fields[:2]
	}
	if len(fields) == 0 || len(fields) > 2 {
		return 0, 0, fmt.Errorf("bad object reference %q, want \"id gen\"", s)
	}
	id, err := strconv.Atoi(fields[0])
	if err != nil || id <= 0 {
		return 0, 0, fmt.Errorf("bad object id %q", fields[0])
	}
	gen := 0
	if len(fields) == 2 {
		if gen, err = strconv.Atoi(fields[1]); err != nil || gen < 0 {
			return 0, 0, fmt.Errorf("bad generation %q", fields[1])
		}
	}
	return id, gen, nil
}

func configureWriter(doc *qpdf.Document, linearize, deterministicID bool, force, minimum, decode, objstm string) (*qpdf.Writer, error) {
	w := doc.Writer()
	if linearize {
		w.Linearize(true)
	}
	if deterministicID {
		w.DeterministicID(true)
	}
	if force != "" {
		w.ForcePDFVersion(force)
	}
	if minimum != "" {
		w.MinimumPDFVersion(minimum)
	}
	if decode != "" {
		levels := map[string]qpdf.DecodeLevel{
			"none":        qpdf.DecodeNone,
			"generalized": qpdf.DecodeGeneralized,
			"specialized": qpdf.DecodeSpecialized,
			"all":         qpdf.DecodeAll,
		}
		lvl, ok := levels[decode]
		if !ok {
			return nil, fmt.Errorf("unknown decode level %q", decode)
		}
		w.StreamDecodeLevel(lvl)
	}
	if objstm != "" {
		modes := map[string]qpdf.ObjectStreamMode{
			"disable":  qpdf.ObjectStreamDisable,
			"preserve": qpdf.ObjectStreamPreserve,
			"generate": qpdf.ObjectStreamGenerate,
		}
		mode, ok := modes[objstm]
		if !ok {
			return nil, fmt.Errorf("unknown object stream mode %q", objstm)
		}
		w.ObjectStreamMode(mode)
	}
	return w, nil
}
