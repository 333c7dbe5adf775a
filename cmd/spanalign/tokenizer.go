package main

import (
	"flag"

	"github.com/gomlx/spanalign/tokenizers/api"
	"github.com/gomlx/spanalign/tokenizers/blank"
	"github.com/gomlx/spanalign/tokenizers/sentencepiece"
	"github.com/pkg/errors"
)

var (
	flagTokenizer  = flag.String("tokenizer", "blank", "Tokenizer used to build documents: \"blank\" or \"sentencepiece\".")
	flagSPModel    = flag.String("sp_model", "", "Path to the SentencePiece model, for -tokenizer=sentencepiece.")
	flagSplitPunct = flag.Bool("split_punct", true, "blank tokenizer: split punctuation into separate tokens.")
)

func newTokenizer() (api.Tokenizer, error) {
	switch *flagTokenizer {
	case "blank":
		return blank.New().WithPunctuationSplit(*flagSplitPunct), nil
	case "sentencepiece":
		if *flagSPModel == "" {
			return nil, errors.New("-tokenizer=sentencepiece requires -sp_model")
		}
		return sentencepiece.New(*flagSPModel)
	default:
		return nil, errors.Errorf("unknown tokenizer %q, valid values are \"blank\" and \"sentencepiece\"", *flagTokenizer)
	}
}
