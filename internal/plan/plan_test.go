package plan_test

import (
	"testing"

	"bennypowers.dev/emailprune/internal/collections"
	"bennypowers.dev/emailprune/internal/plan"
	"github.com/stretchr/testify/assert"
)

func TestPlanHead(t *testing.T) {
	tests := []struct {
		name string
		src  string
		head []string
		want string
	}{
		{
			name: "whole rule",
			src:  `<style>.a{color:red}.b{color:blue}</style>`,
			head: []string{".b"},
			want: `<style>.a{color:red}</style>`,
		},
		{
			name: "whole rule with leading newline",
			src:  "<style>\n  .a{x:1}\n  .b{y:2}\n</style>",
			head: []string{".a"},
			want: "<style>\n  .b{y:2}\n</style>",
		},
		{
			name: "first piece",
			src:  `<style>.a, .b, .c{x:1}</style>`,
			head: []string{".a"},
			want: `<style>.b, .c{x:1}</style>`,
		},
		{
			name: "middle piece",
			src:  `<style>.a, .b, .c{x:1}</style>`,
			head: []string{".b"},
			want: `<style>.a, .c{x:1}</style>`,
		},
		{
			name: "last piece takes the preceding comma",
			src:  `<style>.a, .b, .c {x:1}</style>`,
			head: []string{".c"},
			want: `<style>.a, .b {x:1}</style>`,
		},
		{
			name: "last two pieces",
			src:  `<style>.a, .b, .c{x:1}</style>`,
			head: []string{".b", ".c"},
			want: `<style>.a{x:1}</style>`,
		},
		{
			name: "first and last pieces",
			src:  `<style>.a, .b, .c{x:1}</style>`,
			head: []string{".a", ".c"},
			want: `<style>.b{x:1}</style>`,
		},
		{
			name: "all pieces remove the rule",
			src:  `<style>.k{} .a, .b{x:1}</style>`,
			head: []string{".a", ".b"},
			want: `<style>.k{}</style>`,
		},
		{
			name: "multiline selector list",
			src:  "<style>\n.a,\n.b {\n  x: 1;\n}\n</style>",
			head: []string{".a"},
			want: "<style>\n.b {\n  x: 1;\n}\n</style>",
		},
		{
			name: "compound selector removed whole, never rewritten",
			src:  `<style>.card .title{x:1}.card{y:2}</style>`,
			head: []string{".title"},
			want: `<style>.card{y:2}</style>`,
		},
		{
			name: "rule inside media query",
			src:  `<style>@media (max-width:600px){.a{x:1} .b{y:2}}</style>`,
			head: []string{".a"},
			want: `<style>@media (max-width:600px){ .b{y:2}}</style>`,
		},
		{
			name: "space before brace kept",
			src:  `<style>.a{x:1} .b, .c {y:2}</style>`,
			head: []string{".c"},
			want: `<style>.a{x:1} .b {y:2}</style>`,
		},
		{
			name: "rule after comment opener keeps the opener",
			src:  "<style><!--\n.a{x:1}\n.b{y:2}\n--></style>",
			head: []string{".a"},
			want: "<style><!--\n.b{y:2}\n--></style>",
		},
		{
			name: "rule after comment closer keeps the closer",
			src:  "<style>--> .a{x:1}</style>",
			head: []string{".a"},
			want: "<style>--></style>",
		},
		{
			name: "unterminated rule is left alone",
			src:  `<style>.a{x:1}.b{y:2`,
			head: []string{".b"},
			want: `<style>.a{x:1}.b{y:2`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := plan.Plan(tt.src, collections.NewSet(tt.head...), collections.NewSet[string]())
			assert.Equal(t, tt.want, got.Apply(tt.src))
		})
	}
}

func TestPlanBody(t *testing.T) {
	tests := []struct {
		name string
		src  string
		body []string
		want string
	}{
		{
			name: "one of two classes",
			src:  `<body><div class="a b">x</div></body>`,
			body: []string{".b"},
			want: `<body><div class="a">x</div></body>`,
		},
		{
			name: "only class removes attribute with its whitespace",
			src:  `<body><div  class="b" id="x">x</div></body>`,
			body: []string{".b"},
			want: `<body><div id="x">x</div></body>`,
		},
		{
			name: "id removed",
			src:  `<body><div class="a" id="x">x</div></body>`,
			body: []string{"#x"},
			want: `<body><div class="a">x</div></body>`,
		},
		{
			name: "class and id on one tag",
			src:  `<body><td class="a b c" id="x" style="y">x</td></body>`,
			body: []string{".a", ".c", "#x"},
			want: `<body><td class="b" style="y">x</td></body>`,
		},
		{
			name: "order and quote preserved, whitespace normalized",
			src:  "<body><p\n  class='z  y x'>t</p></body>",
			body: []string{".y"},
			want: "<body><p class='z x'>t</p></body>",
		},
		{
			name: "template fragments survive",
			src:  `<body><p class="a {{ dyn }}">t</p></body>`,
			body: []string{".a"},
			want: `<body><p class="{{ dyn }}">t</p></body>`,
		},
		{
			name: "untouched attribute keeps its bytes",
			src:  `<body><p class="a   b">t</p></body>`,
			body: []string{".z"},
			want: `<body><p class="a   b">t</p></body>`,
		},
		{
			name: "glued attributes stay separated",
			src:  `<body><div class="u"id="v">x</div></body>`,
			body: []string{".u"},
			want: `<body><div id="v">x</div></body>`,
		},
		{
			name: "attribute before self-closing slash",
			src:  `<body><img class="u"/></body>`,
			body: []string{".u"},
			want: `<body><img/></body>`,
		},
		{
			name: "upper-case attribute name kept as written",
			src:  `<BODY><P CLASS="u v">x</P></BODY>`,
			body: []string{".v"},
			want: `<BODY><P CLASS="u">x</P></BODY>`,
		},
		{
			name: "class token does not remove same-named id",
			src:  `<body><p class="a" id="a">t</p></body>`,
			body: []string{"#a"},
			want: `<body><p class="a">t</p></body>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := plan.Plan(tt.src, collections.NewSet[string](), collections.NewSet(tt.body...))
			assert.Equal(t, tt.want, got.Apply(tt.src))
		})
	}
}

func TestPlanHeadThenBody(t *testing.T) {
	src := `<style>.a{x:1}.b{y:2}</style><body><p class="a b">t</p></body>`
	got := plan.Plan(src, collections.NewSet(".b"), collections.NewSet(".b"))

	assert.Equal(t, `<style>.a{x:1}</style><body><p class="a">t</p></body>`, got.Apply(src))
	assert.Equal(t, 2, got.Len())
}

func TestPlanNothingToDo(t *testing.T) {
	src := `<style>.a{x:1}</style><body><p class="a">t</p></body>`
	got := plan.Plan(src, collections.NewSet[string](), collections.NewSet[string]())
	assert.Equal(t, 0, got.Len())
}
