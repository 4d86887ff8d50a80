package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dzjyyds666/tomledit/internal/logging"
	"github.com/dzjyyds666/tomledit/parse"
	"github.com/dzjyyds666/tomledit/parse/keypath"
	"github.com/dzjyyds666/tomledit/parse/toml"
	"github.com/dzjyyds666/tomledit/pkg"
)

type TomlParams struct {
	Find    string `json:"find"`     // 查找的key
	Input   string `json:"input"`    // 输入文件路径
	Output  string `json:"output"`   // 输出文件地址
	InPlace bool   `json:"in_place"` // 是否直接改写输入文件
	Type    string `json:"type"`     // set 时值的类型
}

var errOutputConflict = errors.New("--output and --in-place are mutually exclusive")

func newTomlCmd(root *rootParams) *cobra.Command {
	params := &TomlParams{}
	tomlCmd := &cobra.Command{
		Use:   "toml",
		Short: "toml parse tools",
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}
	tomlCmd.PersistentFlags().StringVarP(&params.Input, "input", "i", "", "input file path")

	tokensCmd := &cobra.Command{
		Use:   "tokens",
		Short: "Print the token stream of a document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(cmd, params)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			st, err := newOutputStyles(out, root.Color)
			if err != nil {
				return err
			}
			for i, tok := range doc.Tokens() {
				fmt.Fprintf(out, "%s\t%s\t%s\n",
					st.Index.Render(strconv.Itoa(i)),
					st.Kind.Render(tok.Kind.String()),
					st.Text.Render(strconv.Quote(tok.Text)))
			}
			return nil
		},
	}

	tablesCmd := &cobra.Command{
		Use:   "tables",
		Short: "Print every table with its body token range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(cmd, params)
			if err != nil {
				return err
			}
			tables, err := doc.Tables()
			if err != nil {
				return err
			}
			logger := logging.FromContext(cmd.Context())
			logger.Debug("indexed tables", logging.FieldTables, len(tables))
			out := cmd.OutOrStdout()
			st, err := newOutputStyles(out, root.Color)
			if err != nil {
				return err
			}
			for _, t := range tables {
				logger.Debug("table", logging.FieldKey, renderKey(t.Key), logging.FieldStart, t.Start, logging.FieldEnd, t.End)
				fmt.Fprintf(out, "%s\t%s\t%s\n",
					st.Key.Render(renderKey(t.Key)),
					st.Range.Render(strconv.Itoa(t.Start)),
					st.Range.Render(strconv.Itoa(t.End)))
			}
			return nil
		},
	}

	getCmd := &cobra.Command{
		Use:   "get",
		Short: "Print the value stored at --find",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(cmd, params)
			if err != nil {
				return err
			}
			key, err := keypath.Parse(params.Find)
			if err != nil {
				return err
			}
			n, err := doc.Get(key)
			if err != nil {
				return err
			}
			text, err := toml.Format(n)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
	getCmd.Flags().StringVarP(&params.Find, "find", "f", "", "key path, e.g. server.ports[0]")
	_ = getCmd.MarkFlagRequired("find")

	setCmd := &cobra.Command{
		Use:   "set VALUE",
		Short: "Insert `key = VALUE` into the table owning --find",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setRun(cmd, params, args[0])
		},
	}
	setCmd.Flags().StringVarP(&params.Find, "find", "f", "", "key path of the new pair, e.g. server.timeout")
	setCmd.Flags().StringVarP(&params.Type, "type", "t", "auto", "value type: auto, string, int, float, bool, datetime")
	setCmd.Flags().StringVarP(&params.Output, "output", "o", "", "output path")
	setCmd.Flags().BoolVar(&params.InPlace, "in-place", false, "rewrite the input file")
	_ = setCmd.MarkFlagRequired("find")

	tomlCmd.AddCommand(tokensCmd, tablesCmd, getCmd, setCmd)
	return tomlCmd
}

func loadDocument(cmd *cobra.Command, params *TomlParams) (*parse.Document, error) {
	src, err := pkg.ReadInput(params.Input)
	if err != nil {
		return nil, err
	}
	doc, err := parse.ParseString(src)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", params.Input, err)
	}
	logging.FromContext(cmd.Context()).Debug("tokenized",
		logging.FieldInput, params.Input,
		logging.FieldBytes, len(src),
		logging.FieldTokens, len(doc.Tokens()))
	return doc, nil
}

func setRun(cmd *cobra.Command, params *TomlParams, raw string) error {
	if params.InPlace && params.Output != "" {
		return errOutputConflict
	}
	logger := logging.FromContext(cmd.Context())

	doc, err := loadDocument(cmd, params)
	if err != nil {
		return err
	}
	key, err := keypath.Parse(params.Find)
	if err != nil {
		return err
	}
	value, err := toml.ParseInput(params.Type, raw)
	if err != nil {
		return err
	}
	edited, err := doc.Insert(key, value)
	if err != nil {
		return err
	}
	logger.Debug("inserted pair", logging.FieldKey, key.String(), logging.FieldKind, value.Kind())

	target := params.Output
	if params.InPlace {
		target = params.Input
	}
	if target == "" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), edited.String())
		return err
	}
	written, err := pkg.WriteFileAtomic(cmd.Context(), target, edited.String())
	if err != nil {
		return err
	}
	logger.Info("wrote document", logging.FieldOutput, target, "changed", written)
	return nil
}

func renderKey(k keypath.KeyPath) string {
	if k.IsRoot() {
		return "."
	}
	return k.String()
}
