package commands

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wireform/wireform"
	"github.com/wireform/wireform/wire"
)

var encodeOpts struct {
	protoPath string
	message   string
	jsonPath  string
	outPath   string
	limit     int
}

var encodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Encode a JSON record to wire bytes",
	RunE:  runEncode,
}

func init() {
	encodeCmd.Flags().StringVar(&encodeOpts.protoPath, "proto", "", "path to a .proto file or directory (required)")
	encodeCmd.Flags().StringVar(&encodeOpts.message, "message", "", "message type to encode (required)")
	encodeCmd.Flags().StringVar(&encodeOpts.jsonPath, "json", "-", "JSON record file, - for stdin")
	encodeCmd.Flags().StringVar(&encodeOpts.outPath, "out", "", "write raw bytes to this file instead of hex to stdout")
	encodeCmd.Flags().IntVar(&encodeOpts.limit, "limit", 0, "fail if the output would exceed this many bytes")
	_ = encodeCmd.MarkFlagRequired("proto")
	_ = encodeCmd.MarkFlagRequired("message")
	rootCmd.AddCommand(encodeCmd)
}

func runEncode(cmd *cobra.Command, args []string) error {
	wf := wireform.New()
	if err := wf.LoadSchema(encodeOpts.protoPath); err != nil {
		return errors.Wrap(err, "load schema")
	}
	log.Debug("schema loaded",
		zap.String("path", encodeOpts.protoPath),
		zap.Strings("messages", wf.ListMessages()))

	data, err := readRecordJSON(encodeOpts.jsonPath)
	if err != nil {
		return err
	}

	rec, err := wf.NewRecord(encodeOpts.message)
	if err != nil {
		return err
	}
	defer rec.Release()

	if err := wf.Populate(rec, data); err != nil {
		return errors.Wrap(err, "populate record")
	}

	var out []byte
	if encodeOpts.limit > 0 {
		out, err = wire.EncodeRecordLimit(rec, encodeOpts.limit)
	} else {
		out, err = wf.Marshal(rec)
	}
	if err != nil {
		return errors.Wrap(err, "encode record")
	}
	log.Info("record encoded",
		zap.String("message", encodeOpts.message),
		zap.Int("bytes", len(out)))

	if encodeOpts.outPath != "" {
		return errors.Wrap(os.WriteFile(encodeOpts.outPath, out, 0o644), "write output")
	}
	fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(out))
	return nil
}

func readRecordJSON(path string) (map[string]interface{}, error) {
	var raw []byte
	var err error
	if path == "-" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, errors.Wrap(err, "read record JSON")
	}
	var data map[string]interface{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, errors.Wrap(err, "parse record JSON")
	}
	return data, nil
}
