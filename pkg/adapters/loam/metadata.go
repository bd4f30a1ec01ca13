package loam

// GameMetadata is the frontmatter of a game document. The Markdown body of
// the document is the game description.
//
//	---
//	id: crypt
//	name: The Crypt
//	language: en
//	author: alice
//	root:
//	  id: hall
//	  type: ROOM
//	  name: Hall
//	  description: A long hall.
//	  children:
//	    - {id: lever, type: FLAG, name: Lever}
//	---
//	A short game about a lever.
type GameMetadata struct {
	ID          string `json:"id" mapstructure:"id"`
	Name        string `json:"name" mapstructure:"name"`
	Description string `json:"description" mapstructure:"description"`
	Language    string `json:"language" mapstructure:"language"`
	Author      string `json:"author" mapstructure:"author"`
	Published   *bool  `json:"published" mapstructure:"published"`

	// Root is decoded separately so nested YAML maps of any shape reach mapstructure intact.
	Root any `json:"root" mapstructure:"root"`
}
