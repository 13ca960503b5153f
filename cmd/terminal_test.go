package cmd

import (
	"bytes"
	"errors"
	"strings"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/tidwall/gjson"
)

// fakeSender scripts SendCommand responses and records the commands sent.
type fakeSender struct {
	responses map[string]string
	err       error
	sent      []string
}

func (f *fakeSender) SendCommand(command string) (string, error) {
	f.sent = append(f.sent, command)

	if f.err != nil {
		return "", f.err
	}

	return f.responses[command], nil
}

var _ = Describe("parseHostPort", func() {
	It("uses the default port when none is given", func() {
		host, port, err := parseHostPort("mc.example.com", 25575)
		Expect(err).To(Succeed())
		Expect(host).To(Equal("mc.example.com"))
		Expect(port).To(Equal(25575))
	})

	It("parses an explicit port", func() {
		host, port, err := parseHostPort("localhost:12345", 25575)
		Expect(err).To(Succeed())
		Expect(host).To(Equal("localhost"))
		Expect(port).To(Equal(12345))
	})

	It("rejects non-numeric ports", func() {
		_, _, err := parseHostPort("localhost:abc", 25575)
		Expect(err).To(MatchError(ContainSubstring("invalid port")))
	})

	It("rejects ports outside 1-65535", func() {
		_, _, err := parseHostPort("localhost:0", 25575)
		Expect(err).To(MatchError(ContainSubstring("invalid port")))

		_, _, err = parseHostPort("localhost:65536", 25575)
		Expect(err).To(MatchError(ContainSubstring("invalid port")))
	})

	It("rejects addresses with more than one colon", func() {
		_, _, err := parseHostPort("host:1234:extra", 25575)
		Expect(err).To(MatchError(ContainSubstring("want host[:port]")))
	})
})

var _ = Describe("runCommands", func() {
	It("prints a > and < pair per command in order", func() {
		sender := &fakeSender{responses: map[string]string{"list": "2 players online"}}
		out := &bytes.Buffer{}

		err := runCommands(sender, []string{"list", "say hi"}, out, false)
		Expect(err).To(Succeed())

		Expect(sender.sent).To(Equal([]string{"list", "say hi"}))
		Expect(out.String()).To(Equal("> list\n< 2 players online\n> say hi\n< (empty response)\n"))
	})

	It("substitutes (empty response) for empty bodies", func() {
		sender := &fakeSender{}
		out := &bytes.Buffer{}

		Expect(runCommands(sender, []string{"save-all"}, out, false)).To(Succeed())
		Expect(out.String()).To(ContainSubstring("< (empty response)\n"))
	})

	It("stops at the first failed exchange", func() {
		sender := &fakeSender{err: errors.New("boom")}
		out := &bytes.Buffer{}

		err := runCommands(sender, []string{"list", "say hi"}, out, false)
		Expect(err).To(MatchError("boom"))
		Expect(sender.sent).To(Equal([]string{"list"}))
	})

	It("emits one JSON object per exchange in json mode", func() {
		sender := &fakeSender{responses: map[string]string{"list": `2 "players" online`}}
		out := &bytes.Buffer{}

		Expect(runCommands(sender, []string{"list", "say hi"}, out, true)).To(Succeed())

		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		Expect(lines).To(HaveLen(2))

		Expect(gjson.Get(lines[0], "command").String()).To(Equal("list"))
		Expect(gjson.Get(lines[0], "response").String()).To(Equal(`2 "players" online`))
		Expect(gjson.Get(lines[1], "command").String()).To(Equal("say hi"))
		Expect(gjson.Get(lines[1], "response").String()).To(Equal(""))
	})
})

var _ = Describe("runTerminal", func() {
	It("sends each line and stops at the quit command", func() {
		sender := &fakeSender{responses: map[string]string{"list": "2 players online"}}
		in := strings.NewReader("list\n\\quit\nsay hi\n")
		out := &bytes.Buffer{}

		err := runTerminal(sender, in, out, false)
		Expect(err).To(Succeed())

		Expect(sender.sent).To(Equal([]string{"list"}))
		Expect(out.String()).To(ContainSubstring("< 2 players online\n"))
	})

	It("treats a quit command with surrounding spaces as quit", func() {
		sender := &fakeSender{}
		in := strings.NewReader("  \\quit  \n")
		out := &bytes.Buffer{}

		Expect(runTerminal(sender, in, out, false)).To(Succeed())
		Expect(sender.sent).To(BeEmpty())
	})

	It("stops at end of input", func() {
		sender := &fakeSender{}
		in := strings.NewReader("say hi\n")
		out := &bytes.Buffer{}

		Expect(runTerminal(sender, in, out, false)).To(Succeed())
		Expect(sender.sent).To(Equal([]string{"say hi"}))
	})

	It("prompts before every command", func() {
		sender := &fakeSender{}
		in := strings.NewReader("say hi\n\\quit\n")
		out := &bytes.Buffer{}

		Expect(runTerminal(sender, in, out, false)).To(Succeed())
		Expect(strings.Count(out.String(), "> ")).To(Equal(2))
	})

	It("surfaces a failed exchange", func() {
		sender := &fakeSender{err: errors.New("connection reset")}
		in := strings.NewReader("list\n")
		out := &bytes.Buffer{}

		Expect(runTerminal(sender, in, out, false)).To(MatchError("connection reset"))
	})
})
