package graph_test

import (
	"strings"
	"testing"

	"github.com/oneconfig/oneconfig/internal/presentation/graph"
	"github.com/oneconfig/oneconfig/internal/testutils"
)

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		schema   string
		contains []string
	}{
		{
			name:   "Root And Scalar Leaf",
			schema: "host: !string\n",
			contains: []string{
				`root(("schema"))`,
				"root --> root_host",
				`root_host["host : string"]`,
			},
		},
		{
			name:   "Constraint Annotation",
			schema: "port: !integer\n  min: 1\n  max: 65535\n",
			contains: []string{
				`root_port["port : integer <br/> 1..65535"]`,
			},
		},
		{
			name:   "Default Annotation",
			schema: "channel: !string\n  default: stable\n",
			contains: []string{
				`root_channel["channel : string <br/> = stable"]`,
			},
		},
		{
			name:   "Optional Field Dotted Arrow",
			schema: "nickname: !string\n  optional: true\n",
			contains: []string{
				"root -.-> root_nickname",
				`root_nickname["nickname : string"]`,
			},
		},
		{
			name:   "List Subroutine Shape",
			schema: "mirrors: !list\n  - !url\n",
			contains: []string{
				`root_mirrors[["mirrors[]"]]`,
				"root_mirrors --> root_mirrors_elem",
				`root_mirrors_elem["element : url"]`,
			},
		},
		{
			name:   "Choice Rhombus With Labeled Edges",
			schema: "port: !one_of\n  - !integer\n  - !string\n",
			contains: []string{
				`root_port{"port : one of"}`,
				`root_port -- "integer" --> root_port_alt1`,
				`root_port_alt1["option 1 : integer"]`,
				`root_port_alt2["option 2 : string"]`,
			},
		},
		{
			name:   "Open Ended Marker",
			schema: "meta:\n  owner: !string\n  \"...\":\n",
			contains: []string{
				"root_meta -.-> root_meta_open",
				`root_meta_open["..."]`,
			},
		},
		{
			name:   "ID Sanitization",
			schema: "data-set.v2: !string\n",
			contains: []string{
				`root_data_set_v2["data-set.v2 : string"]`,
			},
		},
		{
			name:   "Non Mapping Root",
			schema: "!list\n- !string\n",
			contains: []string{
				"root --> root_value",
				`root_value[["value[]"]]`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := testutils.CompileSchema(t, tt.schema)
			got := graph.GenerateMermaid(node)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("GenerateMermaid() = \n%v\nWant substring: %v", got, want)
				}
			}
		})
	}
}
