package exercise

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"easyview/pkg/form"
	stdnet "easyview/std/net"
)

var (
	listTmpl = template.Must(template.New("list").Parse(`
<h1>Ülesanded</h1>
<ul>
{{range .}}  <li><a href="{{.URL}}">{{.Title}}</a></li>
{{end}}</ul>
<p><a href="/benchmark">Näidisülesanne</a></p>
`))

	exerciseTmpl = template.Must(template.New("exercise").Parse(`
<h1>{{.Title}}</h1>
<p>{{.Text}}</p>
<form action="{{.URL}}/submit">
<input type="hidden" name="{{.EditorField}}" />
<input type="submit" value="Esita aktiivse redaktori sisu" />
</form>
`))

	submitTmpl = template.Must(template.New("submit").Parse(`
<h1>Esitus</h1>
<pre><code>{{.Source}}</code></pre>
<h2>Tulemus</h2>
<p>Priima töö!</p>
<h2>Eelmised esitused</h2>
<ul>
{{range .History}}  <li>{{.}}</li>
{{end}}</ul>
`))
)

type demoExercise struct {
	URL   string
	Title string
	Text  string
}

var demoExercises = []demoExercise{
	{URL: "/ex1", Title: "Ülesanne 1", Text: "Kirjuta programm, mis tervitab kasutajat."},
	{URL: "/ex2", Title: "Ülesanne 2", Text: "Kirjuta programm, mis liidab kaks arvu."},
}

// Demo serves a fixed set of pages without a network service.
type Demo struct {
	fetch func(ctx context.Context, url string) ([]byte, string, error)
	now   func() time.Time
}

func NewDemo() *Demo {
	return &Demo{fetch: stdnet.Fetch, now: time.Now}
}

func (d *Demo) Page(ctx context.Context, url string, data *form.Data) (Page, error) {
	if err := ctx.Err(); err != nil {
		return Page{}, err
	}
	home := Breadcrumb{URL: "/", Label: "Home"}

	switch url {
	case "/":
		html, err := execute(listTmpl, demoExercises)
		return Page{HTML: html, Breadcrumbs: []Breadcrumb{home}}, err
	case "/benchmark":
		return Page{HTML: benchmarkPage, Breadcrumbs: []Breadcrumb{home, {URL: url, Label: "Näidisülesanne"}}}, nil
	}

	base, submitted := strings.CutSuffix(url, "/submit")
	for _, ex := range demoExercises {
		if ex.URL != base {
			continue
		}
		crumbs := []Breadcrumb{home, {URL: ex.URL, Label: ex.Title}}
		if submitted {
			source, _ := data.Get(EditorContentName)
			html, err := execute(submitTmpl, map[string]any{
				"Source":  source,
				"History": []string{d.now().Format(time.DateTime)},
			})
			return Page{HTML: html, Breadcrumbs: crumbs}, err
		}
		html, err := execute(exerciseTmpl, map[string]any{
			"Title":       ex.Title,
			"Text":        ex.Text,
			"URL":         ex.URL,
			"EditorField": EditorContentName,
		})
		return Page{HTML: html, Breadcrumbs: crumbs}, err
	}
	return Page{}, fmt.Errorf("%w: %s", ErrNotFound, url)
}

func (d *Demo) Image(ctx context.Context, url string) ([]byte, error) {
	body, _, err := d.fetch(ctx, url)
	return body, err
}

func (d *Demo) MaxThreads() int { return DefaultMaxThreads }

func (d *Demo) MenuItems() []MenuItem {
	return []MenuItem{
		{Label: "Ülesanded", URL: "/"},
		{Label: "Näidisülesanne", URL: "/benchmark"},
	}
}

func execute(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing %s template: %w", t.Name(), err)
	}
	return buf.String(), nil
}

const benchmarkPage = `
<div class="paragraph">
 <p>Alates 2014. aastast on Eesti Lepidopteroloogide Selts igal aastal valinud aasta liblika. Tänavune aasta liblikas on <a href="https://et.wikipedia.org/wiki/Teelehe-mosaiikliblikas" target="_blank">teelehe-mosaiikliblikas</a>.</p>
</div>
<div class="imageblock">
 <div class="content">
  <img src="https://upload.wikimedia.org/wikipedia/commons/thumb/5/55/Marsh_fritillary_%28Euphydryas_aurinia%29_male.jpg/1280px-Marsh_fritillary_%28Euphydryas_aurinia%29_male.jpg" alt="euphydryas_aurinia" width="350">
 </div>
</div>
<div class="paragraph">
 <p>Koostada programm, mille</p>
</div>
<div class="ulist">
 <ul>
  <li> <p>1. real luuakse muutuja nimega <code>aasta</code> ning antakse sellele väärtuseks <code>2020</code> (arvuna);</p> </li>
  <li> <p>2. real luuakse muutuja nimega <code>liblikas</code> ning antakse sellele väärtuseks <code>"teelehe-mosaiikliblikas"</code> (sõnena);</p> </li>
  <li> <p>3. real luuakse muutuja nimega <code>lause_keskosa</code> ning antakse sellele väärtuseks <code>". aasta liblikas on "</code> (sõnena);</p> </li>
  <li> <p>4. real luuakse muutuja nimega <code>lause</code>, mille väärtuse saamiseks ühendatakse üheks sõnaks muutujad <code>aasta</code>, <code>lause_keskosa</code> ja <code>liblikas</code>;</p> </li>
  <li> <p>5. real väljastatakse muutuja <code>lause</code> väärtus ekraanile.</p> </li>
 </ul>
</div>
<details>
<summary class="title">Näited programmi tööst</summary>
 <div class="content">
  <pre class="highlight"><code data-lang="python">&gt;&gt;&gt; <span class="run">%Run yl1.2.py</span>
  <span class="nohl">2020. aasta liblikas on teelehe-mosaiikliblikas</span></code></pre>
 </div>
</details>
<table>
 <tr><th>Muutuja</th><th>Tüüp</th></tr>
 <tr><td>aasta</td><td>int</td></tr>
 <tr><td>liblikas</td><td>str</td></tr>
</table>
<hr>
<ol>
 <li>Lahenda ülesanne.</li>
 <li>Esita lahendus.</li>
</ol>
`
