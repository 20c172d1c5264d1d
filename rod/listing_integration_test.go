//go:build integration

package rod_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ficha"
	"ficha/rod"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeListing mimics the registry: a "Ver Lista" toggle, a PrimeNG
// style paginator, rows with modal triggers, and dynamically inserted
// normal/confidential modals.
const fakeListing = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Consulta</title></head>
<body>
<button onclick="showList()">Ver Lista</button>
<span class="p-paginator-pages">
  <button class="p-paginator-page" onclick="setPage(1)">1</button>
  <button class="p-paginator-page" onclick="setPage(2)">2</button>
</span>
<table><tbody id="rows"></tbody></table>
<script>
var data = {
  1: [
    {folio: 'F-1', nombre: 'ANA', conf: false},
    {folio: 'F-2', nombre: 'LUIS', conf: true}
  ],
  2: [
    {folio: 'F-3', nombre: 'EVA', conf: false}
  ]
};
function rowHTML(r) {
  var cells = [r.folio, r.nombre, 'PÉREZ', 'LÓPEZ', '30', 'MUJER',
    'SIGUE DESAPARECIDA', '2020-01-01', 'JALISCO', r.conf ? 'SI' : 'NO', 'B-9'];
  var tds = '';
  for (var i = 0; i < cells.length; i++) { tds += '<td>' + cells[i] + '</td>'; }
  tds += '<td><a href="#" data-bs-toggle="modal" onclick="openModal(' + r.conf + ')">Ver</a></td>';
  return '<tr>' + tds + '</tr>';
}
function setPage(n) {
  var html = '';
  for (var i = 0; i < data[n].length; i++) { html += rowHTML(data[n][i]); }
  document.getElementById('rows').innerHTML = html;
}
function showList() { setPage(1); }
function openModal(conf) {
  if (conf) {
    document.body.insertAdjacentHTML('beforeend',
      '<div class="modal-content" id="m">CONFIDENCIAL ' +
      '<button class="icono-modal-cerrar" onclick="closeModal()">x</button></div>');
  } else {
    document.body.insertAdjacentHTML('beforeend',
      '<div class="p-dialog" aria-modal="true" id="m">' +
      '<div class="p-dialog-content"><div class="modal-body">Expediente completo</div></div>' +
      '<img alt="Cerrar" onclick="closeModal()"></div>');
  }
}
function closeModal() {
  var m = document.getElementById('m');
  if (m) { m.remove(); }
}
</script>
</body>
</html>`

func serveFakeListing(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(fakeListing))
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func TestListing_Integration(t *testing.T) {
	mgr, err := rod.NewManager()
	require.NoError(t, err)
	defer mgr.Close()

	listing := rod.NewListing(mgr, serveFakeListing(t))
	defer listing.Close()
	ctx := context.Background()

	require.NoError(t, listing.Open(ctx))

	t.Run("enumerates rows after list-view switch", func(t *testing.T) {
		rows, err := listing.Rows(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, rows)
	})

	t.Run("detects total pages from the paginator", func(t *testing.T) {
		assert.Equal(t, 2, listing.TotalPages(ctx))
	})

	t.Run("row HTML carries the cell values", func(t *testing.T) {
		html, err := listing.RowHTML(ctx, 0)
		require.NoError(t, err)
		assert.Contains(t, html, "F-1")
		assert.Contains(t, html, "ANA")
	})

	t.Run("out of range row is ERANGE", func(t *testing.T) {
		_, err := listing.RowHTML(ctx, 9)
		require.Error(t, err)
		assert.Equal(t, ficha.ERANGE, ficha.ErrorCode(err))
	})

	t.Run("normal record renders to PDF", func(t *testing.T) {
		detail, err := listing.OpenDetail(ctx, 0)
		require.NoError(t, err)
		defer detail.Close()

		assert.False(t, detail.Confidential(ctx))
		require.NoError(t, detail.WaitReady(ctx))
		require.NoError(t, detail.Stabilize(ctx))

		data, err := detail.CapturePDF(ctx)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(data), "%PDF"), "expected a PDF header")
	})

	t.Run("restricted record is classified confidential", func(t *testing.T) {
		detail, err := listing.OpenDetail(ctx, 1)
		require.NoError(t, err)
		defer detail.Close()

		assert.True(t, detail.Confidential(ctx))
	})

	t.Run("paginator switches pages", func(t *testing.T) {
		require.NoError(t, listing.SelectPage(ctx, 2))
		rows, err := listing.Rows(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, rows)

		html, err := listing.RowHTML(ctx, 0)
		require.NoError(t, err)
		assert.Contains(t, html, "F-3")
	})

	t.Run("unknown page is ENOTFOUND", func(t *testing.T) {
		err := listing.SelectPage(ctx, 99)
		require.Error(t, err)
		assert.Equal(t, ficha.ENOTFOUND, ficha.ErrorCode(err))
	})
}

func TestManager_CloseIsIdempotent(t *testing.T) {
	mgr, err := rod.NewManager()
	require.NoError(t, err)

	assert.NotZero(t, mgr.LauncherPID())
	require.NoError(t, mgr.Close())
	assert.NoError(t, mgr.Close())
	assert.Zero(t, mgr.LauncherPID())
}

func TestManager_SnapshotBrowserRecycles(t *testing.T) {
	mgr, err := rod.NewManager(rod.WithMaxSnapshots(2))
	require.NoError(t, err)
	defer mgr.Close()

	// Captures beyond the recycle threshold must keep working in the
	// relaunched snapshot browser.
	for i := 0; i < 5; i++ {
		page, err := mgr.SnapshotPage()
		require.NoError(t, err)
		require.NoError(t, page.SetDocumentContent("<p>hola</p>"))
		require.NoError(t, page.Close())
	}

	assert.NotZero(t, mgr.LauncherPID(), "the listing browser survives snapshot recycling")
}
