package sidebar

import (
	"strconv"
	"strings"
)

// HandoffMaxAge bounds how long a scroll offset written by a link click waits
// for the navigation it belongs to, in seconds.
const HandoffMaxAge = 30

// clientScript runs in the browser. The sidebar arrives already rendered, so
// the script only applies the restore outcome, hands the scroll offset to the
// next page load when a link is followed and flips sections on toggle clicks.
//
// The offset travels in a cookie named after the scroll key. It is written
// synchronously in the click handler, so the navigation request carries it;
// a server consumes and clears it during Restore. Without a server (a baked
// book on static hosting) the next page reads and clears it itself.
const clientScript = `// booknav sidebar client
(function () {
  "use strict";
  var TAG = __TAG__;
  var DEFAULT_KEY = __KEY__;
  var MAX_AGE = __MAX_AGE__;

  function scrollKey(box) {
    return box.dataset.scrollKey || DEFAULT_KEY;
  }

  function saveScroll(box) {
    document.cookie = encodeURIComponent(scrollKey(box)) + "=" + String(box.scrollTop) +
      "; path=/; max-age=" + MAX_AGE + "; samesite=lax";
  }

  function takeScroll(box) {
    var name = encodeURIComponent(scrollKey(box)) + "=";
    var parts = document.cookie.split(";");
    for (var i = 0; i < parts.length; i++) {
      var part = parts[i].trim();
      if (part.indexOf(name) === 0) {
        document.cookie = name + "; path=/; max-age=0; samesite=lax";
        return part.substring(name.length);
      }
    }
    return null;
  }

  function restore(box) {
    if (box.dataset.scrollTop !== undefined) {
      box.scrollTop = Number(box.dataset.scrollTop) || 0;
      return;
    }
    var saved = takeScroll(box);
    if (saved !== null && saved !== "") {
      box.scrollTop = Number(saved) || 0;
      return;
    }
    if (box.dataset.centerActive) {
      var active = box.querySelector(".active");
      if (active) {
        active.scrollIntoView({ block: "center" });
      }
    }
  }

  function mount(box) {
    box.addEventListener("click", function (e) {
      if (e.target.tagName === "A") {
        saveScroll(box);
      }
    }, { passive: true });
    box.querySelectorAll("a.toggle").forEach(function (el) {
      el.addEventListener("click", function () {
        el.parentElement.classList.toggle("expanded");
      });
    });
    restore(box);
  }

  class BooknavSidebar extends HTMLElement {
    connectedCallback() {
      mount(this);
    }
  }

  if (!customElements.get(TAG)) {
    customElements.define(TAG, BooknavSidebar);
  }
})();
`

// ClientScript returns the browser half of the sidebar for the custom element
// named tag.
func ClientScript(tag string) string {
	return strings.NewReplacer(
		"__TAG__", strconv.Quote(tag),
		"__KEY__", strconv.Quote(DefaultScrollKey),
		"__MAX_AGE__", strconv.Itoa(HandoffMaxAge),
	).Replace(clientScript)
}
