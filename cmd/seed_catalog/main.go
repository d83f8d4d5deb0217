// seed_catalog genera un script SQL que carga el catálogo inicial de un tenant
// (categorías y productos con su stock) a partir de un CSV exportado del sistema anterior.
//
// Uso: go run ./cmd/seed_catalog -tenant papeleria-centro [-latin1] [-out seed.sql] catalogo.csv
//
// Columnas: nombre;precio;stock;categoria[;descripcion]. La primera fila es encabezado.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

func main() {
	tenantID := flag.String("tenant", "", "tenant destino (requerido)")
	latin1 := flag.Bool("latin1", false, "el CSV viene en Windows-1252 (exportación de Excel)")
	outPath := flag.String("out", "", "archivo de salida; vacío = stdout")
	flag.Parse()

	if *tenantID == "" || flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "uso: seed_catalog -tenant <id> [-latin1] [-out seed.sql] catalogo.csv")
		os.Exit(2)
	}

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	var in io.Reader = f
	if *latin1 {
		in = transform.NewReader(f, charmap.Windows1252.NewDecoder())
	}

	rows, err := parseCatalog(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer catálogo: %v\n", err)
		os.Exit(1)
	}

	var out io.Writer = os.Stdout
	if *outPath != "" {
		file, err := os.Create(*outPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
			os.Exit(1)
		}
		defer file.Close()
		out = file
	}

	cats, err := writeSeedSQL(out, *tenantID, rows)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "Generado: %d categorías, %d productos\n", cats, len(rows))
}
