// Package media models the multimodal inputs a request can carry.
//
// A media object is a closed tagged union over text, image, and
// "anything else". Keeping the union closed means every switch over
// media kinds has to say what it does with unknown kinds — the
// normalizer rejects them explicitly instead of silently dropping them.
package media

// Kind tags a media Object. It plays the role of a discriminant in a
// tagged union: exactly one set of Object fields is meaningful for
// each Kind.
type Kind int

const (
	// KindText is plain text content carried inline in the object.
	KindText Kind = iota

	// KindImage is an image on the local filesystem. The object holds
	// the file's location and MIME type; the bytes are read lazily when
	// the request is translated to the wire format.
	KindImage

	// KindOther covers media types this adapter does not support
	// (audio, video, ...). The original declared type name is kept so
	// error messages can say exactly what was rejected.
	KindOther
)

// String returns the lowercase name of the kind, used in errors and logs.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindImage:
		return "image"
	default:
		return "other"
	}
}

// Object is one element of a multimodal prompt.
type Object struct {
	Kind Kind `json:"kind"`

	// Text is set for KindText objects.
	Text string `json:"text,omitempty"`

	// Location and ContentType are set for KindImage objects.
	// Location is a local filesystem path; ContentType is the MIME
	// type sent to the provider (e.g. "image/png").
	Location    string `json:"location,omitempty"`
	ContentType string `json:"content_type,omitempty"`

	// TypeName preserves the declared type of a KindOther object
	// (e.g. "audio/wav") so rejections can name it.
	TypeName string `json:"type_name,omitempty"`
}

// Text builds a text media object.
func Text(s string) Object {
	return Object{Kind: KindText, Text: s}
}

// Image builds an image media object pointing at a local file.
func Image(location, contentType string) Object {
	return Object{Kind: KindImage, Location: location, ContentType: contentType}
}

// Other builds a media object of an unsupported type. typeName is the
// declared type, kept for error reporting.
func Other(typeName string) Object {
	return Object{Kind: KindOther, TypeName: typeName}
}

// DescribeType returns the most specific type name available for the
// object: the declared TypeName for unsupported kinds, otherwise the
// kind itself.
func (o Object) DescribeType() string {
	if o.Kind == KindOther && o.TypeName != "" {
		return o.TypeName
	}
	return o.Kind.String()
}
