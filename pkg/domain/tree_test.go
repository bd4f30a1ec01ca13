package domain_test

import (
	"testing"

	"github.com/aretw0/quester/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func str(s string) *string { return &s }

func newRoot(t *testing.T) *domain.Node {
	t.Helper()
	root, err := domain.NewRoom("id1", "Hall", "A long hall")
	require.NoError(t, err)
	return root
}

func add(t *testing.T, root *domain.Node, req domain.AddRequest) *domain.Node {
	t.Helper()
	n, err := root.AddNode(req)
	require.NoError(t, err)
	return n
}

func flag(id, parent string) domain.AddRequest {
	return domain.AddRequest{ID: id, ParentID: parent, Type: domain.NodeTypeFlag, Name: str("Flag " + id)}
}

func choice(id, parent string) domain.AddRequest {
	return domain.AddRequest{ID: id, ParentID: parent, Type: domain.NodeTypeChoice, Name: str("Choice " + id)}
}

func room(id, parent string) domain.AddRequest {
	return domain.AddRequest{ID: id, ParentID: parent, Type: domain.NodeTypeRoom, Name: str("Room " + id), Description: str("Somewhere")}
}

func cond(id, parent, flagID string) domain.AddRequest {
	return domain.AddRequest{ID: id, ParentID: parent, Type: domain.NodeTypeCondition, FlagID: str(flagID), FlagState: domain.FlagActive}
}

func TestConcreteScenario(t *testing.T) {
	root := newRoot(t)

	add(t, root, domain.AddRequest{ID: "id2", ParentID: "id1", Name: str("Flag1"), Type: domain.NodeTypeFlag})
	add(t, root, domain.AddRequest{ID: "id3", ParentID: "id1", Name: str("Choice1"), Type: domain.NodeTypeChoice})
	add(t, root, domain.AddRequest{ID: "id4", ParentID: "id3", Type: domain.NodeTypeCondition, FlagID: str("id2"), FlagState: domain.FlagActive})

	c, ok := root.Child(1).Child(0).Condition()
	require.True(t, ok)
	assert.Equal(t, "id2", c.FlagID())
	assert.Equal(t, domain.FlagActive, c.FlagState())
	assert.Equal(t, "id4", c.NodeID())

	rm, err := root.DeleteChildNode("id2")
	require.NoError(t, err)
	assert.Equal(t, "id2", rm.Node.ID())
	require.Len(t, rm.Cascaded, 1)
	assert.Equal(t, "id4", rm.Cascaded[0].ID())

	require.Equal(t, 1, root.ChildCount())
	assert.Equal(t, "id3", root.Child(0).ID())
	assert.Equal(t, domain.NodeTypeChoice, root.Child(0).Type())
	assert.Empty(t, root.Child(0).Children())
}

func TestAddNode_RoundTrip(t *testing.T) {
	root := newRoot(t)
	add(t, root, domain.AddRequest{
		ID: "cellar", ParentID: "id1", Type: domain.NodeTypeRoom,
		Name: str("  Cellar "), Description: str(" Damp and dark  "),
	})

	n := root.FindByID("cellar")
	require.NotNil(t, n)
	assert.Equal(t, domain.NodeTypeRoom, n.Type())
	assert.Equal(t, "Cellar", n.Name())
	assert.Equal(t, "Damp and dark", n.Description())
	_, ok := n.Condition()
	assert.False(t, ok)
}

func TestAddNode_Errors(t *testing.T) {
	tests := []struct {
		name string
		req  domain.AddRequest
		want error
	}{
		{"missing id", domain.AddRequest{ParentID: "id1", Type: domain.NodeTypeFlag, Name: str("x")}, domain.ErrNullValue},
		{"missing parent", domain.AddRequest{ID: "n", Type: domain.NodeTypeFlag, Name: str("x")}, domain.ErrNullValue},
		{"missing type", domain.AddRequest{ID: "n", ParentID: "id1", Name: str("x")}, domain.ErrNullValue},
		{"duplicate id", flag("f1", "id1"), domain.ErrAlreadyExists},
		{"duplicate root id", flag("id1", "id1"), domain.ErrAlreadyExists},
		{"unknown parent", flag("n", "ghost"), domain.ErrParentNotExists},
		{"condition without flag id", domain.AddRequest{ID: "n", ParentID: "c1", Type: domain.NodeTypeCondition, FlagState: domain.FlagActive}, domain.ErrFlagNotExists},
		{"condition with unknown flag", cond("n", "c1", "ghost"), domain.ErrFlagNotExists},
		{"condition referencing a choice", cond("n", "c1", "c1"), domain.ErrFlagNotExists},
		{"condition without state", domain.AddRequest{ID: "n", ParentID: "c1", Type: domain.NodeTypeCondition, FlagID: str("f1")}, domain.ErrNullValue},
		{"flag without name", domain.AddRequest{ID: "n", ParentID: "id1", Type: domain.NodeTypeFlag}, domain.ErrNullValue},
		{"choice with blank name", domain.AddRequest{ID: "n", ParentID: "id1", Type: domain.NodeTypeChoice, Name: str("   ")}, domain.ErrEmptyString},
		{"room without description", domain.AddRequest{ID: "n", ParentID: "c1", Type: domain.NodeTypeRoom, Name: str("R")}, domain.ErrNullValue},
		{"blank id", flag("   ", "id1"), domain.ErrEmptyString},
		{"unknown type", domain.AddRequest{ID: "n", ParentID: "id1", Type: "PORTAL", Name: str("x")}, domain.ErrParentMismatch},
		{"flag under flag", flag("n", "f1"), domain.ErrParentMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := newRoot(t)
			add(t, root, flag("f1", "id1"))
			add(t, root, choice("c1", "id1"))
			before := root.Snapshot()

			_, err := root.AddNode(tt.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			var ne *domain.NodeError
			assert.ErrorAs(t, err, &ne)
			assert.Equal(t, "add", ne.Op)
			assert.Equal(t, before, root.Snapshot(), "tree must not change on failure")
		})
	}
}

func TestAddNode_AlreadyExistsWinsOverParentCheck(t *testing.T) {
	root := newRoot(t)
	add(t, root, flag("f1", "id1"))

	_, err := root.AddNode(flag("f1", "ghost"))
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestAddNode_AcceptanceTable(t *testing.T) {
	parents := map[domain.NodeType]string{
		domain.NodeTypeRoom:      "id1",
		domain.NodeTypeChoice:    "c1",
		domain.NodeTypeFlag:      "f1",
		domain.NodeTypeCondition: "k1",
	}
	allowed := map[domain.NodeType][]domain.NodeType{
		domain.NodeTypeRoom:      {domain.NodeTypeRoom, domain.NodeTypeChoice, domain.NodeTypeFlag},
		domain.NodeTypeChoice:    {domain.NodeTypeRoom, domain.NodeTypeCondition},
		domain.NodeTypeFlag:      nil,
		domain.NodeTypeCondition: {domain.NodeTypeRoom, domain.NodeTypeCondition},
	}

	for _, parentType := range domain.NodeTypes {
		for _, childType := range domain.NodeTypes {
			t.Run(string(parentType)+"/"+string(childType), func(t *testing.T) {
				root := newRoot(t)
				add(t, root, flag("f1", "id1"))
				add(t, root, choice("c1", "id1"))
				add(t, root, cond("k1", "c1", "f1"))

				req := domain.AddRequest{
					ID: "new", ParentID: parents[parentType], Type: childType,
					Name: str("New"), Description: str("New node"),
					FlagID: str("f1"), FlagState: domain.FlagNotActive,
				}
				_, err := root.AddNode(req)

				if contains(allowed[parentType], childType) {
					require.NoError(t, err)
					assert.Equal(t, childType, root.FindByID("new").Type())
				} else {
					assert.ErrorIs(t, err, domain.ErrParentMismatch)
					assert.Nil(t, root.FindByID("new"))
				}
				assert.Equal(t, contains(allowed[parentType], childType), parentType.Accepts(childType))
			})
		}
	}
}

func contains(types []domain.NodeType, t domain.NodeType) bool {
	for _, x := range types {
		if x == t {
			return true
		}
	}
	return false
}

func TestAddNode_SingleRoomPerParent(t *testing.T) {
	root := newRoot(t)
	add(t, root, flag("f1", "id1"))
	add(t, root, choice("c1", "id1"))
	add(t, root, cond("k1", "c1", "f1"))

	for _, parent := range []string{"id1", "c1", "k1"} {
		t.Run(parent, func(t *testing.T) {
			add(t, root, room("r-"+parent, parent))

			_, err := root.AddNode(room("r2-"+parent, parent))
			assert.ErrorIs(t, err, domain.ErrParentMismatch)
		})
	}

	// conditions are not capped
	add(t, root, cond("k2", "c1", "f1"))
	add(t, root, cond("k3", "k1", "f1"))
	assert.Equal(t, 3, root.FindByID("c1").ChildCount())
}

func TestAddNode_UniqueIDs(t *testing.T) {
	root := newRoot(t)
	add(t, root, flag("f1", "id1"))
	add(t, root, choice("c1", "id1"))
	add(t, root, cond("k1", "c1", "f1"))
	add(t, root, room("r1", "k1"))
	add(t, root, choice("c2", "r1"))

	seen := map[string]bool{}
	root.Walk(func(n *domain.Node, _ int) bool {
		assert.False(t, seen[n.ID()], "duplicate %s", n.ID())
		seen[n.ID()] = true
		return true
	})
	assert.Len(t, seen, 6)
	assert.Equal(t, 6, root.Len())

	for id := range seen {
		_, err := root.AddNode(flag(id, "r1"))
		assert.ErrorIs(t, err, domain.ErrAlreadyExists, id)
	}
}

func TestFindByID_PreOrder(t *testing.T) {
	root := newRoot(t)
	add(t, root, choice("c1", "id1"))
	add(t, root, room("r1", "c1"))
	add(t, root, choice("c2", "r1"))
	add(t, root, flag("f1", "id1"))

	var order []string
	root.Walk(func(n *domain.Node, _ int) bool {
		order = append(order, n.ID())
		return true
	})
	assert.Equal(t, []string{"id1", "c1", "r1", "c2", "f1"}, order)

	assert.Same(t, root, root.FindByID("id1"))
	assert.Equal(t, "c2", root.FindByID("c2").ID())
	assert.Nil(t, root.FindByID("missing"))

	sub := root.FindByID("r1")
	assert.Nil(t, sub.FindByID("f1"), "search is limited to the subtree")
}

func TestChildren_IsCopy(t *testing.T) {
	root := newRoot(t)
	add(t, root, choice("c1", "id1"))
	add(t, root, flag("f1", "id1"))

	kids := root.Children()
	kids[0], kids[1] = kids[1], kids[0]

	assert.Equal(t, 2, root.ChildCount())
	assert.Equal(t, "c1", root.Child(0).ID())
}

func TestEditNode(t *testing.T) {
	root := newRoot(t)
	add(t, root, flag("f1", "id1"))
	add(t, root, flag("f2", "id1"))
	add(t, root, choice("c1", "id1"))
	add(t, root, cond("k1", "c1", "f1"))

	t.Run("room", func(t *testing.T) {
		require.NoError(t, root.EditNode("id1", domain.EditRequest{Name: str(" Atrium "), Description: str("Bright")}))
		assert.Equal(t, "Atrium", root.Name())
		assert.Equal(t, "Bright", root.Description())
	})

	t.Run("choice ignores description", func(t *testing.T) {
		require.NoError(t, root.EditNode("c1", domain.EditRequest{Name: str("Run"), Description: str("ignored")}))
		n := root.FindByID("c1")
		assert.Equal(t, "Run", n.Name())
		assert.Empty(t, n.Description())
	})

	t.Run("condition", func(t *testing.T) {
		require.NoError(t, root.EditNode("k1", domain.EditRequest{FlagID: str("f2"), FlagState: domain.FlagNotActive}))
		c, _ := root.FindByID("k1").Condition()
		assert.Equal(t, "f2", c.FlagID())
		assert.Equal(t, domain.FlagNotActive, c.FlagState())
		assert.Equal(t, "k1", c.NodeID())
	})
}

func TestEditNode_Errors(t *testing.T) {
	tests := []struct {
		name string
		id   string
		req  domain.EditRequest
		want error
	}{
		{"missing id", "", domain.EditRequest{Name: str("x")}, domain.ErrNullValue},
		{"unknown node", "ghost", domain.EditRequest{Name: str("x")}, domain.ErrNodeNotFound},
		{"condition with unknown flag", "k1", domain.EditRequest{FlagID: str("ghost"), FlagState: domain.FlagNotActive}, domain.ErrFlagNotExists},
		{"condition with no flag", "k1", domain.EditRequest{FlagState: domain.FlagNotActive}, domain.ErrFlagNotExists},
		{"condition with no state", "k1", domain.EditRequest{FlagID: str("f1")}, domain.ErrNullValue},
		{"room with valid name but blank description", "id1", domain.EditRequest{Name: str("New"), Description: str(" ")}, domain.ErrEmptyString},
		{"room without name", "id1", domain.EditRequest{Description: str("d")}, domain.ErrNullValue},
		{"flag with blank name", "f1", domain.EditRequest{Name: str("")}, domain.ErrEmptyString},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := newRoot(t)
			add(t, root, flag("f1", "id1"))
			add(t, root, choice("c1", "id1"))
			add(t, root, cond("k1", "c1", "f1"))
			before := root.Snapshot()

			err := root.EditNode(tt.id, tt.req)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, before, root.Snapshot(), "edit must be all-or-nothing")
		})
	}
}

func TestDeleteChildNode_FlagCascade(t *testing.T) {
	root := newRoot(t)
	add(t, root, flag("f", "id1"))
	add(t, root, flag("other", "id1"))
	add(t, root, choice("choiceA", "id1"))
	add(t, root, cond("condA", "choiceA", "f"))
	add(t, root, choice("choiceB", "id1"))
	add(t, root, cond("condB", "choiceB", "f"))
	add(t, root, cond("keep", "choiceB", "other"))
	add(t, root, room("r", "keep"))
	add(t, root, choice("deep", "r"))
	add(t, root, cond("condDeep", "deep", "f"))
	add(t, root, cond("condNested", "condDeep", "other"))

	rm, err := root.DeleteChildNode("f")
	require.NoError(t, err)

	var cascaded []string
	for _, n := range rm.Cascaded {
		cascaded = append(cascaded, n.ID())
	}
	assert.ElementsMatch(t, []string{"condA", "condB", "condDeep"}, cascaded)

	assert.Nil(t, root.FindByID("f"))
	assert.Nil(t, root.FindByID("condNested"), "subtree of a cascaded condition goes with it")
	assert.Empty(t, root.FindByID("choiceA").Children())
	assert.Equal(t, 1, root.FindByID("choiceB").ChildCount())
	assert.NotNil(t, root.FindByID("keep"))
	assert.Empty(t, root.FindByID("deep").Children())
	assert.NotNil(t, root.FindByID("other"))
	assert.Empty(t, root.DanglingConditions())
}

func TestDeleteChildNode_AdjacentConditions(t *testing.T) {
	root := newRoot(t)
	add(t, root, flag("f", "id1"))
	add(t, root, choice("c", "id1"))
	for _, id := range []string{"k1", "k2", "k3", "k4"} {
		add(t, root, cond(id, "c", "f"))
	}

	rm, err := root.DeleteChildNode("f")
	require.NoError(t, err)
	assert.Len(t, rm.Cascaded, 4)
	assert.Empty(t, root.FindByID("c").Children())
}

func TestDeleteChildNode_NonFlagKeepsConditions(t *testing.T) {
	root := newRoot(t)
	add(t, root, flag("f", "id1"))
	add(t, root, choice("c1", "id1"))
	add(t, root, cond("k1", "c1", "f"))
	add(t, root, choice("c2", "id1"))
	add(t, root, cond("k2", "c2", "f"))

	rm, err := root.DeleteChildNode("c1")
	require.NoError(t, err)
	assert.Empty(t, rm.Cascaded)
	assert.Equal(t, "k1", rm.Node.Child(0).ID(), "subtree is detached intact")
	assert.NotNil(t, root.FindByID("k2"))
	assert.Nil(t, root.FindByID("k1"))
}

func TestDeleteChildNode_Errors(t *testing.T) {
	root := newRoot(t)
	add(t, root, choice("c1", "id1"))
	add(t, root, room("r1", "c1"))

	_, err := root.DeleteChildNode("")
	assert.ErrorIs(t, err, domain.ErrNullValue)

	_, err = root.DeleteChildNode("ghost")
	assert.ErrorIs(t, err, domain.ErrNodeNotFound)

	_, err = root.DeleteChildNode("id1")
	assert.ErrorIs(t, err, domain.ErrRootNodeDeleting)

	sub := root.FindByID("c1")
	_, err = sub.DeleteChildNode("c1")
	assert.ErrorIs(t, err, domain.ErrRootNodeDeleting, "the receiver is always protected")

	assert.Equal(t, 3, root.Len())
}

func TestDanglingConditions(t *testing.T) {
	root := newRoot(t)
	add(t, root, room("r", "id1"))
	add(t, root, flag("f", "r"))
	add(t, root, choice("c", "id1"))
	add(t, root, cond("k", "c", "f"))

	_, err := root.DeleteChildNode("r")
	require.NoError(t, err)

	dangling := root.DanglingConditions()
	require.Len(t, dangling, 1)
	assert.Equal(t, "k", dangling[0].ID())
}

func TestNewRoom(t *testing.T) {
	_, err := domain.NewRoom("", "n", "d")
	assert.ErrorIs(t, err, domain.ErrNullValue)

	_, err = domain.NewRoom("r", " ", "d")
	assert.ErrorIs(t, err, domain.ErrEmptyString)

	r, err := domain.NewRoom("r", "Name", "Desc")
	require.NoError(t, err)
	assert.Equal(t, domain.NodeTypeRoom, r.Type())
	assert.Zero(t, r.ChildCount())
}
