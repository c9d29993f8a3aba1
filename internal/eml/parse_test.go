package eml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = "From: Alice <alice@example.com>\r\n" +
	"To: Bob <bob@example.com>,\r\n" +
	"\tCarol <carol@example.com>\r\n" +
	"Subject: Quarterly\r\n" +
	"  numbers\r\n" +
	"Date: Mon, 4 Mar 2024 09:00:00 +0000\r\n" +
	"Content-Transfer-Encoding: quoted-printable\r\n" +
	"\r\n" +
	"Hi Bob,=0D=0A\r\n" +
	"\r\n" +
	"The numbers are in the atta=\r\n" +
	"ched   sheet.\r\n"

func TestParse(t *testing.T) {
	m, err := Parse(sample)
	require.NoError(t, err)

	assert.Equal(t, "Alice <alice@example.com>", m.Header("From"))
	assert.Equal(t, "Bob <bob@example.com>, Carol <carol@example.com>", m.Header("to"))
	assert.Equal(t, "Quarterly numbers", m.Header("SUBJECT"))
	assert.Equal(t, "Mon, 4 Mar 2024 09:00:00 +0000", m.Header("Date"))
	assert.Equal(t, []string{"From", "To", "Subject", "Date", "Content-Transfer-Encoding"}, m.Fields())
	assert.Equal(t, "Hi Bob, The numbers are in the attached sheet.", m.Body)
}

func TestParseWithoutBody(t *testing.T) {
	m, err := Parse("Subject: only headers")
	require.NoError(t, err)
	assert.Equal(t, "only headers", m.Header("Subject"))
	assert.Empty(t, m.Body)
}

func TestParseKeepsFirstDuplicate(t *testing.T) {
	m, err := Parse("Received: one\nReceived: two\n continued\n\nbody")
	require.NoError(t, err)
	assert.Equal(t, "one", m.Header("Received"))
	assert.Equal(t, []string{"Received"}, m.Fields())
}

func TestParseFailures(t *testing.T) {
	for name, raw := range map[string]string{
		"empty":        "",
		"binary":       "\xd0\xcf\x11\xe0\xa1\xb1\x1a\xe1\x00\x00",
		"prose":        "just some text without any header\n\nand a body",
		"space in key": "not a header: value\n\nbody",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(raw)
			assert.ErrorIs(t, err, ErrNoHeaders)
		})
	}
}

func TestCleanBody(t *testing.T) {
	assert.Equal(t, "caf", CleanBody("caf=C3=A9"))
	assert.Equal(t, "joined", CleanBody("join=\ned"))
	assert.Equal(t, "a b c", CleanBody(" a\n\n\tb   c \n"))
	assert.Equal(t, "x =Z1 y", CleanBody("x =Z1 y"), "non-hex sequences stay")
}
