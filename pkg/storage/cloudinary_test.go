package storage

import "testing"

func TestExtractPublicID(t *testing.T) {
	cases := map[string]string{
		"https://res.cloudinary.com/demo/image/upload/v1712345/campuscrafter/pictures/abc.webp": "campuscrafter/pictures/abc",
		"https://res.cloudinary.com/demo/image/upload/pictures/abc.webp":                       "pictures/abc",
		"https://res.cloudinary.com/demo/image/upload/vacation.jpg":                            "vacation",
		"https://example.com/no-upload-segment.png":                                            "",
		"::not a url":                                                                          "",
	}

	for in, want := range cases {
		if got := ExtractPublicID(in); got != want {
			t.Fatalf("ExtractPublicID(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIsImageFile(t *testing.T) {
	if !IsImageFile("me.JPG") {
		t.Fatalf("expected jpg to be accepted")
	}
	if IsImageFile("notes.pdf") {
		t.Fatalf("expected pdf to be rejected")
	}
}
