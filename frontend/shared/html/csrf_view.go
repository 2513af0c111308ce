package html

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// Names shared with the double-submit check in infrastructure/http.
const (
	CSRFCookieName = "X-CSRF-Token"
	CSRFFieldName  = "_csrf"
)

const csrfScript = `<script>
(function () {
  var cookieName = %q, fieldName = %q;

  function token() {
    var parts = document.cookie ? document.cookie.split(";") : [];
    for (var i = 0; i < parts.length; i++) {
      var c = parts[i].trim();
      if (c.indexOf(cookieName + "=") === 0) return decodeURIComponent(c.substring(cookieName.length + 1));
    }
    return "";
  }

  function stamp(form) {
    if ((form.getAttribute("method") || "GET").toUpperCase() !== "POST") return;
    var value = token();
    if (!value) return;
    var input = form.querySelector("input[name='" + fieldName + "']");
    if (!input) {
      input = document.createElement("input");
      input.type = "hidden";
      input.name = fieldName;
      form.appendChild(input);
    }
    input.value = value;
  }

  // Capture phase so forms rendered after load are covered too.
  document.addEventListener("submit", function (e) { stamp(e.target); }, true);
  document.addEventListener("change", function (e) { if (e.target.form) stamp(e.target.form); }, true);
})();
</script>`

// CSRFFormScript stamps the CSRF cookie value into every POST form before it is submitted.
func CSRFFormScript() templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, csrfScript, CSRFCookieName, CSRFFieldName)
		return err
	})
}
