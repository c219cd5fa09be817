//
// main.go
//
// Copyright (c) 2019-2025 Markku Rossi
//
// All rights reserved.
//

// Command garble garbles and evaluates SKCD circuits:
//
//	garble -g -o circuit.gbc -labels labels.cbor circuit.skcd
//	garble -e -labels labels.cbor -in 101 circuit.gbc
//	garble -i circuit.skcd
package main

import (
	"bytes"
	"encoding/hex"
	"flag"
	"fmt"
	"os"

	"github.com/markkurossi/garble/circuit"
	"github.com/markkurossi/garble/drbg"
	"github.com/markkurossi/garble/env"
	"github.com/markkurossi/garble/logger"
	"github.com/markkurossi/garble/prf"
)

func main() {
	garble := flag.Bool("g", false, "garble the SKCD circuit")
	eval := flag.Bool("e", false, "evaluate the garbled circuit")
	info := flag.Bool("i", false, "print SKCD circuit information")
	out := flag.String("o", "", "garbled circuit output file")
	labels := flag.String("labels", "", "input label file")
	in := flag.String("in", "", "evaluator input bits")
	seed := flag.String("seed", "", "hex seed for deterministic garbling")
	aes := flag.Bool("aes", false, "use the AES PRF scheme")
	parallel := flag.Bool("parallel", false, "use the parallel evaluator")
	verbose := flag.Bool("v", false, "verbose output")
	flag.Parse()

	log := logger.Logger()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: garble [options] FILE\n")
		flag.PrintDefaults()
		os.Exit(2)
	}
	file := flag.Arg(0)

	cfg := &env.Config{}
	if *aes {
		cfg.PRF = prf.AES
	}
	if len(*seed) > 0 {
		data, err := hex.DecodeString(*seed)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid seed")
		}
		rand, err := drbg.New(data)
		if err != nil {
			log.Fatal().Err(err).Msg("drbg init failed")
		}
		cfg.Rand = rand
	}

	var err error
	switch {
	case *garble:
		err = doGarble(cfg, file, *out, *labels, *verbose)
	case *eval:
		err = doEval(cfg, file, *labels, *in, *parallel, *verbose)
	case *info:
		err = doInfo(file)
	default:
		err = doInfo(file)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("operation failed")
	}
}

func parseSKCDFile(file string) (*circuit.Circuit, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return circuit.ParseSKCD(f)
}

func doGarble(cfg *env.Config, file, out, labels string,
	verbose bool) error {

	log := logger.Logger()
	timing := circuit.NewTiming()

	c, err := parseSKCDFile(file)
	if err != nil {
		return err
	}
	timing.Sample("Parse", nil)
	log.Info().Msgf("circuit %s", c)

	garbled, enc, err := c.Garble(cfg)
	if err != nil {
		return err
	}
	timing.Sample("Garble", nil)

	data, err := garbled.Bytes()
	if err != nil {
		return err
	}
	if len(out) == 0 {
		out = file + ".gbc"
	}
	if err := os.WriteFile(out, data, 0644); err != nil {
		return err
	}
	log.Info().Msgf("garbled circuit %s: %s", out,
		circuit.FileSize(len(data)))

	if len(labels) > 0 {
		encData, err := enc.Marshal()
		if err != nil {
			return err
		}
		// The label file holds the garbler's secrets; keep it owner
		// readable only.
		if err := os.WriteFile(labels, encData, 0600); err != nil {
			return err
		}
		log.Info().Msgf("input labels %s: %s", labels,
			circuit.FileSize(len(encData)))
	}
	timing.Sample("Write", nil)
	if verbose {
		timing.Print(os.Stdout)
	}
	return nil
}

func doEval(cfg *env.Config, file, labels, in string, parallel,
	verbose bool) error {

	log := logger.Logger()
	timing := circuit.NewTiming()

	data, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	garbled, err := circuit.UnmarshalGarbled(cfg, bytes.NewReader(data))
	if err != nil {
		return err
	}
	timing.Sample("Parse", []string{circuit.FileSize(len(data)).String()})
	log.Info().Msgf("garbled circuit: %d gates, %d inputs, %d outputs",
		len(garbled.Gates), len(garbled.Inputs), len(garbled.Outputs))

	encData, err := os.ReadFile(labels)
	if err != nil {
		return err
	}
	enc, err := circuit.UnmarshalEncoder(encData)
	if err != nil {
		return err
	}

	bits := make([]byte, len(in))
	for i := range in {
		switch in[i] {
		case '0':
		case '1':
			bits[i] = 1
		default:
			return fmt.Errorf("invalid input bit %q", in[i])
		}
	}
	inputs, err := enc.EncodeInputs(bits)
	if err != nil {
		return err
	}
	timing.Sample("Encode", nil)

	var result []byte
	if parallel {
		result, err = garbled.EvalParallel(cfg, inputs)
	} else {
		result, err = garbled.Eval(inputs)
	}
	if err != nil {
		return err
	}
	timing.Sample("Eval", nil)

	var str string
	for _, bit := range result {
		str += fmt.Sprintf("%d", bit)
	}
	fmt.Printf("%s\n", str)
	if verbose {
		timing.Print(os.Stdout)
	}
	return nil
}

func doInfo(file string) error {
	c, err := parseSKCDFile(file)
	if err != nil {
		return err
	}
	fmt.Printf("%s\n", c)
	c.PrintStats(os.Stdout)
	return nil
}
