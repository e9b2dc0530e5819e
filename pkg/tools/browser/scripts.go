package browser

// DOM identifiers shared by every script. Annotations live in one absolutely
// positioned container so they scroll with the document and never take
// pointer events.
const (
	containerID      = "page-annotator-container"
	stylesID         = "page-annotator-styles"
	attributePrefix  = "data-annotator-"
	containerCSS     = "position:absolute;top:0;left:0;width:100%;min-height:100vh;pointer-events:none;z-index:999999;"
	keyframesCSS     = "@keyframes annotator-pulse{0%,100%{opacity:1}50%{opacity:.6}}@keyframes comment-fade-in{from{opacity:0;transform:scale(.9)}to{opacity:1;transform:scale(1)}}"
	annotationFilter = ".page-annotator-highlight, .page-annotator-label, .page-annotator-comment, .page-annotator-comment-underline"
)

// metricsScript reads viewport, scroll offset and document size.
const metricsScript = `() => {
  const de = document.documentElement;
  return {
    viewportWidth: window.innerWidth || de.clientWidth,
    viewportHeight: window.innerHeight || de.clientHeight,
    scrollX: window.pageXOffset || de.scrollLeft || 0,
    scrollY: window.pageYOffset || de.scrollTop || 0,
    documentWidth: de.scrollWidth,
    documentHeight: de.scrollHeight,
  };
}`

// snapshotAllScript reads everything the resolver needs from every element
// matching a selector in a single round trip. Ancestor chains are classified
// on the Go side. id and class are null when the attribute is absent.
const snapshotAllScript = `(els) => els.map((el) => {
  const r = el.getBoundingClientRect();
  const cs = window.getComputedStyle(el);
  const chain = [];
  for (let n = el; n && n.nodeType === 1; n = n.parentElement) {
    const cls = typeof n.className === 'string' ? n.className : (n.getAttribute('class') || '');
    chain.push({ tag: n.tagName.toLowerCase(), class: cls });
  }
  return {
    left: r.left, top: r.top, width: r.width, height: r.height,
    text: el.textContent || '',
    display: cs.display, visibility: cs.visibility, opacity: cs.opacity,
    attributes: { id: el.getAttribute('id'), class: el.getAttribute('class') },
    chain,
  };
})`

// attributeScript reads one attribute of the i-th match. A missing element
// or attribute is null.
const attributeScript = `(els, a) => els[a.index] ? els[a.index].getAttribute(a.name) : null`

// scrollScript starts a smooth scroll of the i-th match and returns before
// it finishes.
const scrollScript = `(els, i) => {
  const el = els[i];
  if (!el) return;
  try {
    el.scrollIntoView({ behavior: 'smooth', block: 'center', inline: 'nearest' });
  } catch (e) {
    el.scrollIntoView({ block: 'center' });
  }
}`

// measureScript renders a hidden copy of a text visual and reports its box.
const measureScript = `(v) => {
  const el = document.createElement('div');
  el.style.cssText = v.css + 'position:absolute;left:0;top:0;visibility:hidden;';
  if (v.icon) {
    const icon = document.createElement('span');
    icon.textContent = v.icon;
    icon.style.cssText = v.iconCss;
    el.appendChild(icon);
  }
  el.appendChild(document.createTextNode(v.text));
  document.body.appendChild(el);
  const size = { width: el.offsetWidth, height: el.offsetHeight };
  el.remove();
  return size;
}`

// renderScript appends one positioned visual to the container, creating the
// container and keyframes on first use.
const renderScript = `(v) => {
  let root = document.getElementById('` + containerID + `');
  if (!root) {
    root = document.createElement('div');
    root.id = '` + containerID + `';
    root.style.cssText = '` + containerCSS + `';
    document.body.appendChild(root);
  }
  if (!document.getElementById('` + stylesID + `')) {
    const style = document.createElement('style');
    style.id = '` + stylesID + `';
    style.textContent = '` + keyframesCSS + `';
    document.head.appendChild(style);
  }
  const el = document.createElement('div');
  el.className = v.className;
  el.style.cssText = v.css;
  for (const [k, val] of Object.entries(v.data)) {
    el.setAttribute('` + attributePrefix + `' + k, val);
  }
  if (v.icon) {
    const icon = document.createElement('span');
    icon.textContent = v.icon;
    icon.style.cssText = v.iconCss;
    el.appendChild(icon);
  }
  if (v.text) {
    el.appendChild(document.createTextNode(v.text));
  }
  if (v.arrowCss) {
    const arrow = document.createElement('div');
    arrow.className = 'page-annotator-comment-arrow';
    arrow.style.cssText = v.arrowCss;
    el.appendChild(arrow);
  }
  root.appendChild(el);
  return true;
}`

// existingScript lists the annotations in the container. Positions come
// back as the raw style strings so malformed values stay detectable.
const existingScript = `() => {
  const root = document.getElementById('` + containerID + `');
  if (!root) return [];
  return Array.from(root.querySelectorAll('` + annotationFilter + `')).map((el) => {
    const data = (k) => el.getAttribute('` + attributePrefix + `' + k) || '';
    return {
      id: data('id'),
      kind: data('kind'),
      className: typeof el.className === 'string' ? el.className : '',
      text: data('text'),
      color: data('color'),
      style: data('style'),
      arrow: data('arrow'),
      batch: data('batch'),
      target: data('target'),
      left: el.style.left,
      top: el.style.top,
      width: el.offsetWidth,
      height: el.offsetHeight,
    };
  });
}`

// removeScript deletes annotations by ID and returns how many were removed.
const removeScript = `(ids) => {
  const root = document.getElementById('` + containerID + `');
  if (!root) return 0;
  let removed = 0;
  for (const id of ids) {
    root.querySelectorAll('[` + attributePrefix + `id="' + CSS.escape(id) + '"]').forEach((el) => {
      el.remove();
      removed++;
    });
  }
  return removed;
}`

// clearScript removes the container and keyframes and returns the number
// of annotations that were on the page.
const clearScript = `() => {
  let removed = 0;
  const root = document.getElementById('` + containerID + `');
  if (root) {
    removed = root.querySelectorAll('` + annotationFilter + `').length;
    root.remove();
  }
  const styles = document.getElementById('` + stylesID + `');
  if (styles) styles.remove();
  return removed;
}`
