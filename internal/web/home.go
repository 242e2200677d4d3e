package web

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
)

const thumbnailScale = 8

func Home(data GalleryData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1"/>
    <title>Pixel Gallery</title>
    <style>
      body { font-family: system-ui, sans-serif; margin: 0; background: #f4f1ea; color: #222; }
      .shell { max-width: 960px; margin: 0 auto; padding: 24px; }
      .grid { display: grid; grid-template-columns: repeat(auto-fill, minmax(140px, 1fr)); gap: 16px; }
      .card { background: #fff; padding: 8px; border-radius: 6px; text-align: center; }
      .card img { image-rendering: pixelated; width: 128px; height: 128px; }
      .meta { font-size: 0.85em; color: #555; }
      .pager a { margin-right: 12px; }
    </style>
  </head>
  <body>
    <main class="shell">
      <header>
        <h1>Pixel Gallery</h1>
`)
		if data.Registered && data.Username != "" {
			b.WriteString(`        <p>Drawing as <strong>` + escape(data.Username) + `</strong></p>
`)
		}
		b.WriteString(`      </header>
`)
		writeArtists(&b, data.Artists)
		writePixelArts(&b, data.PixelArts)
		writePagination(&b, data.Pagination)
		b.WriteString(`    </main>
    <script>
      const scheme = location.protocol === "https:" ? "wss://" : "ws://";
      const socket = new WebSocket(scheme + location.host + "/ws/gallery");
      socket.addEventListener("message", (event) => {
        const data = JSON.parse(event.data);
        if (data.type === "pixel_art_published") {
          location.reload();
        }
        if (data.type === "artists") {
          const list = document.getElementById("artists");
          if (!list) {
            return;
          }
          list.replaceChildren(...(data.artists || []).map((artist) => {
            const item = document.createElement("li");
            item.textContent = artist.username;
            return item;
          }));
        }
      });
    </script>
  </body>
</html>
`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func writeArtists(b *strings.Builder, artists []ArtistSummary) {
	b.WriteString(`      <section>
        <h2>Artists</h2>
        <ul id="artists">
`)
	for _, artist := range artists {
		b.WriteString(`          <li>` + escape(artist.Username) + `</li>
`)
	}
	b.WriteString(`        </ul>
      </section>
`)
}

func writePixelArts(b *strings.Builder, arts []PixelArtSummary) {
	b.WriteString(`      <section>
        <h2>Gallery</h2>
`)
	if len(arts) == 0 {
		b.WriteString(`        <p>Nothing published yet.</p>
      </section>
`)
		return
	}
	b.WriteString(`        <div class="grid">
`)
	for _, art := range arts {
		b.WriteString(`          <figure class="card">
            <img src="` + escape(imageURL(art.ID, thumbnailScale)) + `" alt="pixel art ` + utoa(art.ID) + `"/>
            <figcaption>` + escape(art.Username) + `<br/><span class="meta">` + escape(art.CreationDate) + `</span></figcaption>
          </figure>
`)
	}
	b.WriteString(`        </div>
      </section>
`)
}

func writePagination(b *strings.Builder, p PaginationData) {
	if p.TotalPages <= 1 {
		return
	}
	b.WriteString(`      <nav class="pager">
`)
	if p.HasPrev {
		b.WriteString(`        <a href="` + escape(pageURL(p.BasePath, p.PrevPage, p.PerPage)) + `">Previous</a>
`)
	}
	b.WriteString(`        <span>Page ` + itoa(p.Page) + ` of ` + itoa(p.TotalPages) + `</span>
`)
	if p.HasNext {
		b.WriteString(`        <a href="` + escape(pageURL(p.BasePath, p.NextPage, p.PerPage)) + `">Next</a>
`)
	}
	b.WriteString(`      </nav>
`)
}
