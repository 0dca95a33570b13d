package forest

import (
	"context"
	"slices"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/forest/forestrt/rt/core"
)

const (
	StateLoading State = iota
	StateRunning
	StateExit
)

// ForestScene holds the static geometry assembled during loading.
type ForestScene struct {
	Static     core.StaticScene
	TreeBounds [2]mgl32.Vec3
	Ready      bool
	// MaxFrames ends the run after that many frames when non-zero.
	MaxFrames uint64

	failed bool
}

// ForestModule spawns the scene on entering StateLoading and ends the run on
// ESC, a close request or the frame limit.
type ForestModule struct {
	Config    Config
	MaxFrames uint64
}

func (m ForestModule) Install(app *App, cmd *Commands) {
	cfg := m.Config
	cmd.AddResources(&cfg, NewSceneState(cfg), &ForestScene{MaxFrames: m.MaxFrames})
	if Resource[AssetServer](app) == nil {
		AssetServerModule{}.Install(app, cmd)
	}

	app.UseSystem(
		System(forestSpawnSystem).
			InStage(Update).
			InState(OnEnter(StateLoading)),
	)
	app.UseSystem(
		System(forestAssembleSystem).
			InStage(PostUpdate).
			InState(OnEnter(StateLoading)),
	)
	app.UseSystem(
		System(forestExitSystem).
			InStage(PreUpdate).
			InState(OnExecute(StateRunning)),
	)
}

func forestSpawnSystem(cmd *Commands, cfg *Config, assets *AssetServer, forest *ForestScene) {
	logger := cmd.Logger()

	textures, err := assets.LoadTextures(context.Background(),
		TextureRequest{Path: cfg.Assets.TreeTexture},
		TextureRequest{Path: cfg.Assets.FloorTexture, Mirrored: true},
		TextureRequest{Path: cfg.Assets.WallTexture},
		TextureRequest{Path: cfg.Assets.NoteTexture, Fallback: func() core.TextureImage { return NoteTexture(64) }},
	)
	if err != nil {
		logger.Errorf("loading textures: %v", err)
		forest.failed = true
		cmd.ChangeState(StateExit)
		return
	}

	treeId := assets.LoadMesh(cfg.Assets.TreeModel, func() *core.Mesh { return core.NewProceduralTreeMesh(12) })
	tree, _ := assets.Mesh(treeId)
	logger.Debugf("asset server holds %d textures", assets.TextureCount())

	scene := &forest.Static
	scene.Tree = tree
	scene.Floor = core.NewFloorMesh(cfg.Scene.FloorHalf, cfg.Scene.FloorY, cfg.Scene.FloorUVRepeat)
	scene.Wall = core.NewCubeMesh()
	scene.Note = core.NewNoteQuadMesh()
	scene.TreeTexture, _ = assets.Texture(textures[0])
	scene.FloorTexture, _ = assets.Texture(textures[1])
	scene.WallTexture, _ = assets.Texture(textures[2])
	scene.NoteTexture, _ = assets.Texture(textures[3])

	for i, t := range core.GeneratePlacements(cfg.Forest.Placement, cfg.Forest.Trees) {
		cmd.AddEntity(MeshComponent{Kind: core.MeshTree, Order: i}, TransformComponent{t})
	}

	floor := core.NewTransform()
	floor.Scale = mgl32.Vec3{cfg.Scene.FloorScale, cfg.Scene.FloorScale, cfg.Scene.FloorScale}
	cmd.AddEntity(MeshComponent{Kind: core.MeshFloor}, TransformComponent{floor})

	for i, t := range wallTransforms(cfg.Scene) {
		cmd.AddEntity(MeshComponent{Kind: core.MeshWall, Order: i}, TransformComponent{t})
	}

	flip := mgl32.QuatRotate(math32.Pi, mgl32.Vec3{0, 0, 1})
	for i, p := range cfg.Scene.Notes {
		note := core.NewTransform()
		note.Position = mgl32.Vec3(p)
		note.Rotation = flip
		cmd.AddEntity(MeshComponent{Kind: core.MeshNote, Order: i}, TransformComponent{note})
	}
}

// wallTransforms boxes the floor in with four thin walls standing on it.
func wallTransforms(scene SceneConfig) []core.Transform {
	edge := scene.FloorHalf * scene.FloorScale
	ground := scene.FloorY * scene.FloorScale
	centerY := ground + scene.WallHeight/2
	size := mgl32.Vec3{2 * edge, scene.WallHeight, 0.5}
	quarter := mgl32.QuatRotate(math32.Pi/2, mgl32.Vec3{0, 1, 0})

	walls := []core.Transform{
		{Position: mgl32.Vec3{0, centerY, -edge}, Rotation: mgl32.QuatIdent(), Scale: size},
		{Position: mgl32.Vec3{0, centerY, edge}, Rotation: mgl32.QuatIdent(), Scale: size},
		{Position: mgl32.Vec3{-edge, centerY, 0}, Rotation: quarter, Scale: size},
		{Position: mgl32.Vec3{edge, centerY, 0}, Rotation: quarter, Scale: size},
	}
	return walls
}

type placedMesh struct {
	order     int
	transform core.Transform
}

func forestAssembleSystem(cmd *Commands, forest *ForestScene) {
	if forest.failed {
		return
	}

	byKind := make(map[core.MeshKind][]placedMesh)
	MakeQuery2[MeshComponent, TransformComponent](cmd).Map(func(eid EntityId, mesh *MeshComponent, tr *TransformComponent) bool {
		byKind[mesh.Kind] = append(byKind[mesh.Kind], placedMesh{order: mesh.Order, transform: tr.Transform})
		return true
	})

	ordered := func(kind core.MeshKind) []core.Transform {
		placed := byKind[kind]
		slices.SortFunc(placed, func(a, b placedMesh) int { return a.order - b.order })
		out := make([]core.Transform, len(placed))
		for i, p := range placed {
			out[i] = p.transform
		}
		return out
	}

	scene := &forest.Static
	scene.Trees = ordered(core.MeshTree)
	scene.Floors = ordered(core.MeshFloor)
	scene.Walls = ordered(core.MeshWall)
	scene.Notes = ordered(core.MeshNote)
	forest.TreeBounds = scene.Tree.Bounds()
	forest.Ready = true

	cmd.Logger().Infof("forest ready: %d trees, %d walls, %d notes", len(scene.Trees), len(scene.Walls), len(scene.Notes))
	cmd.ChangeState(StateRunning)
}

func forestExitSystem(cmd *Commands, input *Input, t *Time, forest *ForestScene) {
	frame := input.Frame
	switch {
	case frame.Pressed(KeyEscape):
		cmd.Logger().Infof("escape pressed, exiting")
	case frame.CloseRequested:
		cmd.Logger().Infof("window close requested, exiting")
	case forest.MaxFrames > 0 && t.Frame >= forest.MaxFrames:
		cmd.Logger().Infof("frame limit %d reached, exiting", forest.MaxFrames)
	default:
		return
	}
	cmd.ChangeState(StateExit)
}
