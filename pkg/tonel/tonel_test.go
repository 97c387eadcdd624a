package tonel

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pointSource = `"
I am a 2D point.
"
Class {
	#name : #MyPoint,
	#superclass : #Object,
	#instVars : [ 'x', 'y' ],
	#category : #'MyApp-Core'
}

{ #category : #accessing }
MyPoint >> x [
	^ x
]

{ #category : #accessing }
MyPoint >> x: aNumber [
	x := aNumber
]

{ #category : #arithmetic }
MyPoint >> + aPoint [
	^ self class x: x + aPoint x y: y + aPoint y
]

MyPoint class >> origin [
	^ self new
]
`

func TestParse_ClassFile(t *testing.T) {
	file, err := NewParser().Parse(pointSource)
	require.NoError(t, err)

	assert.Contains(t, file.Comment, "I am a 2D point.")
	assert.Equal(t, "Class", file.Class.Type)
	assert.Equal(t, "MyPoint", file.Class.Metadata["name"])
	assert.Equal(t, "Object", file.Class.Metadata["superclass"])
	assert.Equal(t, []string{"x", "y"}, file.Class.Metadata["instVars"])
	assert.Equal(t, "MyApp-Core", file.Class.Metadata["category"])
	assert.Empty(t, file.Warnings)

	require.Len(t, file.Methods, 4)

	getter := file.Methods[0]
	assert.Equal(t, "MyPoint", getter.ClassName)
	assert.Equal(t, "x", getter.Selector)
	assert.False(t, getter.IsClassMethod)
	assert.Equal(t, "\n\t^ x\n", getter.Body)
	assert.Equal(t, "accessing", getter.Metadata["category"])

	setter := file.Methods[1]
	assert.Equal(t, "x:", setter.Selector)

	binary := file.Methods[2]
	assert.Equal(t, "+", binary.Selector)
	assert.Equal(t, "arithmetic", binary.Metadata["category"])

	classSide := file.Methods[3]
	assert.Equal(t, "origin", classSide.Selector)
	assert.True(t, classSide.IsClassMethod)
	assert.Nil(t, classSide.Metadata)
}

func TestParse_DefinitionKinds(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantType string
	}{
		{
			name:     "trait",
			content:  "Trait { #name : #TMyBehavior }",
			wantType: "Trait",
		},
		{
			name:     "extension",
			content:  "Extension { #name : #String }\nString >> reversed2 [ ^ self reversed ]",
			wantType: "Extension",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file, err := NewParser().Parse(tt.content)
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, file.Class.Type)
		})
	}
}

func TestParse_NoClassDefinition(t *testing.T) {
	_, err := NewParser().Parse("just some text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no valid class definition found")
}

func TestParse_BrokenMethodSkipped(t *testing.T) {
	content := `Class { #name : #MyBroken }
MyBroken >> bad [ ^ [ 1
MyBroken >> fine [ ^ 2 ]
`
	file, err := NewParser().Parse(content)
	require.NoError(t, err)

	require.Len(t, file.Warnings, 1)
	assert.Contains(t, file.Warnings[0], "MyBroken>>bad")

	require.Len(t, file.Methods, 1)
	assert.Equal(t, "fine", file.Methods[0].Selector)
}

func TestExtractSelector(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"value", "value"},
		{"x: aNumber", "x:"},
		{"at: k put: v", "at:put:"},
		{"+ aPoint", "+"},
		{"= other", "="},
		{",  aCollection", ","},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, extractSelector(tt.raw))
		})
	}
}

func TestParseSimpleSTON(t *testing.T) {
	got := parseSimpleSTON(`#name : #Thing, #count : 3, #flag : true, #gone : nil, #label : 'hi', #tags : []`)
	assert.Equal(t, "Thing", got["name"])
	assert.Equal(t, 3, got["count"])
	assert.Equal(t, true, got["flag"])
	assert.Nil(t, got["gone"])
	assert.Equal(t, "hi", got["label"])
	assert.Equal(t, []string{}, got["tags"])

	assert.Empty(t, parseSimpleSTON("   "))
}

func TestFullParser(t *testing.T) {
	t.Run("valid file", func(t *testing.T) {
		file, err := NewFullParser().Parse(pointSource)
		require.NoError(t, err)
		assert.Len(t, file.Methods, 4)
	})

	t.Run("body with bad syntax", func(t *testing.T) {
		content := `Class { #name : #MyBad }
MyBad >> oops [
	x :=
]
`
		_, err := NewFullParser().Parse(content)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid Smalltalk syntax in method MyBad>>oops")
	})

	t.Run("class method named in failure", func(t *testing.T) {
		content := `Class { #name : #MyBad }
MyBad class >> oops [
	nil := 1
]
`
		_, err := NewFullParser().Parse(content)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "MyBad class>>oops")
	})
}

func TestValidate(t *testing.T) {
	t.Run("structural pass accepts bad bodies", func(t *testing.T) {
		content := "Class { #name : #MyThing }\nMyThing >> oops [ nil := 1 ]\n"

		ok, info := NewParser().Validate(content)
		assert.True(t, ok)
		assert.Nil(t, info)

		ok, info = NewFullParser().Validate(content)
		require.False(t, ok)
		assert.Contains(t, info.Reason, "reserved identifier")
	})
}

func TestValidateFixtures(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("..", "..", "testdata", "*.st"))
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	full := NewFullParser()
	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			ok, info := full.ValidateFile(path)
			if !ok {
				t.Fatalf("expected valid file, got line %d: %s", info.Line, info.Reason)
			}

			file, err := full.ParseFile(path)
			require.NoError(t, err)
			assert.NotEmpty(t, file.Methods)
			assert.Empty(t, file.Warnings)
		})
	}
}

func TestValidateFile(t *testing.T) {
	t.Run("valid file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "MyPoint.st")
		require.NoError(t, os.WriteFile(path, []byte(pointSource), 0o644))

		ok, info := NewFullParser().ValidateFile(path)
		assert.True(t, ok)
		assert.Nil(t, info)
	})

	t.Run("unreadable file", func(t *testing.T) {
		ok, info := NewParser().ValidateFile(filepath.Join(t.TempDir(), "missing.st"))
		require.False(t, ok)
		assert.Contains(t, info.Reason, "failed to read file")
	})
}
