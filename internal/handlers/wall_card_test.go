package handlers

import (
	"Testify/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSocialHandle(t *testing.T) {
	cases := map[string]string{
		"https://x.com/jane":                "@jane",
		"https://x.com/jane/":               "@jane",
		"https://linkedin.com/in/jane-doe":  "@jane-doe",
		"https://x.com/jane?utm_source=ads": "@jane",
		"https://x.com/":                    "",
		"https://x.com":                     "",
		"":                                  "",
	}
	for in, want := range cases {
		assert.Equal(t, want, socialHandle(in), in)
	}
}

func TestToWallCard(t *testing.T) {
	img := "data:image/png;base64,AAAA"
	c := toWallCard(model.Testimonial{AuthorName: "élodie", Text: "Merci", SocialURL: "https://x.com/", ImageURL: &img})

	assert.Equal(t, "É", c.Initial)
	assert.Empty(t, c.Handle)
	assert.Equal(t, img, string(c.Image))
}
