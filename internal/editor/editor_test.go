package editor

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/recipetracker/internal/async"
	"github.com/roach88/recipetracker/internal/client"
	"github.com/roach88/recipetracker/internal/ingredients"
	"github.com/roach88/recipetracker/internal/model"
	"github.com/roach88/recipetracker/internal/prefs"
	"github.com/roach88/recipetracker/internal/testutil"
)

var cookedAt = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	api     *testutil.FakeAPI
	client  *client.Client
	store   *prefs.Store
	session *Session
}

func newFixture(t *testing.T, identity model.Identity) *fixture {
	t.Helper()
	ctx := context.Background()

	api := testutil.NewFakeAPI(t)
	c, err := client.New(api.URL(), client.WithRequestIDs(testutil.NewFixedRequestID("")))
	require.NoError(t, err)

	store := prefs.New(prefs.NewMemoryBackend())
	require.NoError(t, store.SetIdentity(ctx, identity))

	return &fixture{
		api:     api,
		client:  c,
		store:   store,
		session: NewSession(c, store, WithClock(func() time.Time { return cookedAt })),
	}
}

var ada = model.Identity{Name: "Ada Lovelace", Email: "ada@example.com"}

func TestRecipeForm_NewDerivesSlug(t *testing.T) {
	f := newFixture(t, ada)
	ctx := context.Background()

	form := f.session.NewRecipeForm()
	form.Title = "Tomato Soup"
	form.Description = "Simmer slowly."
	form.AddIngredient()
	require.NoError(t, form.UpdateIngredient(0, ingredients.FieldName, "tomato"))
	require.NoError(t, form.UpdateIngredient(0, ingredients.FieldQuantity, "4"))
	require.NoError(t, form.UpdateIngredient(0, ingredients.FieldUnit, "pcs"))

	saved, err := form.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tomato-soup", saved.ID)
	assert.False(t, form.IsNew())

	req, ok := f.api.LastRequest()
	require.True(t, ok)
	assert.Equal(t, "/api/recipes", req.Path)
	assert.Equal(t, "Added recipe tomato-soup", req.Query.Get("commitMessage"))
	assert.Equal(t, "Ada Lovelace", req.Query.Get("author"))
	assert.Contains(t, string(req.Body), `"id":"tomato-soup"`)

	stored, ok := f.api.Recipe("tomato-soup")
	require.True(t, ok)
	assert.Equal(t, []model.Ingredient{{Name: "tomato", Quantity: 4, Unit: "pcs"}}, stored.Ingredients)
}

func TestRecipeForm_EditKeepsIDAndSaysChanged(t *testing.T) {
	f := newFixture(t, ada)

	form := f.session.EditRecipe(model.Recipe{ID: "tomato-soup", Title: "Tomato Soup"})
	form.Title = "Roasted Tomato Soup"

	saved, err := form.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tomato-soup", saved.ID)

	req, _ := f.api.LastRequest()
	assert.Equal(t, "Changed recipe tomato-soup", req.Query.Get("commitMessage"))
}

func TestRecipeForm_SecondSubmitIsChange(t *testing.T) {
	f := newFixture(t, ada)
	ctx := context.Background()

	form := f.session.NewRecipeForm()
	form.Title = "Tomato Soup"
	_, err := form.Submit(ctx)
	require.NoError(t, err)

	form.Title = "Tomato Bisque"
	saved, err := form.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tomato-soup", saved.ID, "id is not recomputed from the new title")

	req, _ := f.api.LastRequest()
	assert.Equal(t, "Changed recipe tomato-soup", req.Query.Get("commitMessage"))
}

func TestRecipeForm_ShortIdentityRejectedLocally(t *testing.T) {
	f := newFixture(t, model.Identity{Name: "Adam", Email: "adam@example.com"})

	form := f.session.EditRecipe(model.Recipe{ID: "tomato-soup", Title: "Tomato Soup"})
	_, err := form.Submit(context.Background())

	require.Error(t, err)
	assert.True(t, client.IsValidationError(err))
	assert.Empty(t, f.api.Requests())
}

func TestRecipeForm_MissingTitle(t *testing.T) {
	f := newFixture(t, ada)

	form := f.session.NewRecipeForm()
	form.Title = "   "
	_, err := form.Submit(context.Background())
	assert.ErrorIs(t, err, model.ErrMissingTitle)

	form.Title = "!!!"
	_, err = form.Submit(context.Background())
	assert.ErrorIs(t, err, model.ErrMissingRecipeID)

	assert.Empty(t, f.api.Requests())
}

func TestRecipeForm_IncompleteRowBlocksSubmit(t *testing.T) {
	f := newFixture(t, ada)

	form := f.session.NewRecipeForm()
	form.Title = "Tomato Soup"
	form.AddIngredient()

	_, err := form.Submit(context.Background())
	assert.ErrorIs(t, err, model.ErrIncompleteIngredient)
	assert.Empty(t, f.api.Requests())
}

func TestRecipeForm_RemoveIngredient(t *testing.T) {
	f := newFixture(t, ada)

	form := f.session.EditRecipe(model.Recipe{
		ID:    "soup",
		Title: "Soup",
		Ingredients: []model.Ingredient{
			{Name: "a", Quantity: 1}, {Name: "b", Quantity: 2}, {Name: "c", Quantity: 3},
		},
	})
	require.NoError(t, form.RemoveIngredient(1))
	assert.Equal(t, []model.Ingredient{{Name: "a", Quantity: 1}, {Name: "c", Quantity: 3}}, form.Items)

	assert.ErrorIs(t, form.RemoveIngredient(5), ingredients.ErrIndexOutOfRange)
}

func TestRecipeForm_EditDoesNotAliasInput(t *testing.T) {
	f := newFixture(t, ada)
	original := model.Recipe{ID: "soup", Title: "Soup", Ingredients: []model.Ingredient{{Name: "salt", Quantity: 1}}}

	form := f.session.EditRecipe(original)
	require.NoError(t, form.UpdateIngredient(0, ingredients.FieldName, "pepper"))

	assert.Equal(t, "salt", original.Ingredients[0].Name)
}

func TestLogForm_SubmitMintsUnixID(t *testing.T) {
	f := newFixture(t, ada)

	form := f.session.NewLogForm(model.Recipe{
		ID:          "tomato-soup",
		Ingredients: []model.Ingredient{{Name: "tomato", Quantity: 4, Unit: "pcs"}},
	})
	form.Description = "Needed more salt"
	require.NoError(t, form.UpdateIngredient(0, ingredients.FieldQuantity, "5"))

	saved, err := form.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1714564800", saved.ID)
	assert.Equal(t, "1714564800", form.ID)
	require.NotNil(t, saved.Commit)

	req, _ := f.api.LastRequest()
	assert.Equal(t, "/api/recipes/tomato-soup/logs", req.Path)
	assert.Equal(t, "Changed log 1714564800 in recipe tomato-soup", req.Query.Get("commitMessage"))

	stored, ok := f.api.Log("tomato-soup", "1714564800")
	require.True(t, ok)
	assert.Equal(t, 5.0, stored.ActualIngredients[0].Quantity)
}

func TestLogForm_EditKeepsID(t *testing.T) {
	f := newFixture(t, ada)
	ctx := context.Background()

	first, err := f.session.NewLogForm(model.Recipe{
		ID:          "tomato-soup",
		Ingredients: []model.Ingredient{{Name: "tomato", Quantity: 4, Unit: "pcs"}},
	}).Submit(ctx)
	require.NoError(t, err)

	entry, err := f.client.GetLog(ctx, "tomato-soup", first.ID)
	require.NoError(t, err)

	later := NewSession(f.client, f.store, WithClock(func() time.Time { return cookedAt.Add(time.Hour) }))
	form := later.EditLog(entry)
	form.Description = "Used fresh tomatoes"
	require.NoError(t, form.UpdateIngredient(0, ingredients.FieldQuantity, "6"))
	form.AddIngredient()
	require.NoError(t, form.UpdateIngredient(1, ingredients.FieldName, "basil"))
	require.NoError(t, form.UpdateIngredient(1, ingredients.FieldQuantity, "3"))

	saved, err := form.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1714564800", saved.ID)

	req, _ := f.api.LastRequest()
	assert.Equal(t, "Changed log 1714564800 in recipe tomato-soup", req.Query.Get("commitMessage"))

	stored, ok := f.api.Log("tomato-soup", "1714564800")
	require.True(t, ok)
	assert.Equal(t, "Used fresh tomatoes", stored.Description)
	assert.Equal(t, []model.Ingredient{
		{Name: "tomato", Quantity: 6, Unit: "pcs"},
		{Name: "basil", Quantity: 3},
	}, stored.ActualIngredients)

	_, ok = f.api.Log("tomato-soup", "1714568400")
	assert.False(t, ok)
}

func TestLogForm_RequiresRecipe(t *testing.T) {
	f := newFixture(t, ada)

	form := f.session.NewLogForm(model.Recipe{})
	_, err := form.Submit(context.Background())
	assert.ErrorIs(t, err, model.ErrMissingRecipeID)
	assert.Empty(t, f.api.Requests())
}

func TestLogForm_Delete(t *testing.T) {
	f := newFixture(t, ada)
	ctx := context.Background()

	form := f.session.NewLogForm(model.Recipe{ID: "soup"})
	assert.ErrorIs(t, form.Delete(ctx), ErrUnsavedLog)

	_, err := form.Submit(ctx)
	require.NoError(t, err)
	require.NoError(t, form.Delete(ctx))

	req, _ := f.api.LastRequest()
	assert.Equal(t, http.MethodDelete, req.Method)
	assert.Equal(t, "Deleted log 1714564800 in recipe soup", req.Query.Get("commitMessage"))

	_, ok := f.api.Log("soup", "1714564800")
	assert.False(t, ok)
}

func TestStorePanel_RetryAfterFailedPush(t *testing.T) {
	f := newFixture(t, ada)
	ctx := context.Background()
	panel := f.session.StorePanel()

	f.api.FailNext(http.MethodPost, "/api/db/push", http.StatusInternalServerError, "remote rejected")
	f.api.FailNext(http.MethodPost, "/api/db/push", http.StatusInternalServerError, "authentication required")

	first := panel.Push(ctx)
	require.Error(t, first)
	assert.Equal(t, first, panel.LastErr())
	assert.False(t, panel.Busy())

	second := panel.Push(ctx)
	require.Error(t, second)
	assert.Equal(t, "failed to push database: authentication required", second.Error())
	assert.Equal(t, second, panel.LastErr())

	require.NoError(t, panel.Push(ctx))
	assert.NoError(t, panel.LastErr())

	pushes, _ := f.api.SyncCounts()
	assert.Equal(t, 1, pushes)
}

// blockingAPI holds Sync until released.
type blockingAPI struct {
	API
	entered chan struct{}
	release chan struct{}
}

func (b *blockingAPI) Sync(ctx context.Context, dir model.SyncDirection) error {
	close(b.entered)
	<-b.release
	return nil
}

func TestStorePanel_RejectsOverlappingSync(t *testing.T) {
	api := &blockingAPI{entered: make(chan struct{}), release: make(chan struct{})}
	session := NewSession(api, prefs.New(prefs.NewMemoryBackend()))
	panel := session.StorePanel()

	done := make(chan error, 1)
	go func() { done <- panel.Pull(context.Background()) }()
	<-api.entered

	assert.True(t, panel.Busy())
	assert.ErrorIs(t, panel.Push(context.Background()), ErrSyncInProgress)

	close(api.release)
	require.NoError(t, <-done)
	assert.False(t, panel.Busy())
}

func TestRecipeView_Show(t *testing.T) {
	f := newFixture(t, ada)
	ctx := context.Background()
	f.api.PutRecipe(model.Recipe{ID: "soup", Title: "Soup", Ingredients: []model.Ingredient{{Name: "salt", Quantity: 1}}})
	_, err := f.store.ToggleIngredient(ctx, "soup", "salt")
	require.NoError(t, err)

	view := f.session.RecipeView()
	defer view.Close()

	details, err := view.Show(ctx, "soup")
	require.NoError(t, err)
	assert.Equal(t, "Soup", details.Recipe.Title)
	assert.Empty(t, details.Logs)
	assert.True(t, details.Checked["salt"])

	_, err = view.Show(ctx, "missing")
	require.Error(t, err)
	assert.True(t, client.IsNotFound(err))
	assert.Equal(t, async.Failed, view.State().Status)
}

func TestRecipeView_SameIDIsCached(t *testing.T) {
	f := newFixture(t, ada)
	ctx := context.Background()
	f.api.PutRecipe(model.Recipe{ID: "soup", Title: "Soup"})

	view := f.session.RecipeView()
	defer view.Close()

	_, err := view.Show(ctx, "soup")
	require.NoError(t, err)
	n := len(f.api.Requests())

	_, err = view.Show(ctx, "soup")
	require.NoError(t, err)
	assert.Len(t, f.api.Requests(), n)

	_, err = view.Refresh(ctx)
	require.NoError(t, err)
	assert.Greater(t, len(f.api.Requests()), n)
}

func TestRecipeView_ConcurrentShowsStayConsistent(t *testing.T) {
	f := newFixture(t, ada)
	ctx := context.Background()
	f.api.PutRecipe(model.Recipe{ID: "soup", Title: "Soup"})
	f.api.PutRecipe(model.Recipe{ID: "bread", Title: "Bread"})

	view := f.session.RecipeView()
	defer view.Close()

	for i := 0; i < 20; i++ {
		var wg sync.WaitGroup
		for _, id := range []string{"soup", "bread"} {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _ = view.Show(ctx, id)
			}()
		}
		wg.Wait()

		for _, id := range []string{"soup", "bread"} {
			details, err := view.Show(ctx, id)
			require.NoError(t, err)
			require.Equal(t, id, details.Recipe.ID)
		}
	}
}

func TestRecipeView_RefreshBeforeShow(t *testing.T) {
	f := newFixture(t, ada)
	view := f.session.RecipeView()
	defer view.Close()

	_, err := view.Refresh(context.Background())
	assert.ErrorIs(t, err, ErrNoRecipe)
	assert.Empty(t, f.api.Requests())
}

func TestRecipeView_ClosedView(t *testing.T) {
	f := newFixture(t, ada)
	view := f.session.RecipeView()
	view.Close()

	_, err := view.Show(context.Background(), "soup")
	assert.ErrorIs(t, err, async.ErrClosed)
	assert.Empty(t, f.api.Requests())
}
