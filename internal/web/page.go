package web

// indexPage is the terminal-style browser client. It speaks the JSON
// message protocol over /ws: {"type":"login","name":...} then
// {"type":"command","text":...}, receiving {"type":"output","text":...}.
const indexPage = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>PyMUD3</title>
<style>
  body { background: #111; color: #ddd; font-family: monospace; margin: 0; }
  #screen { height: calc(100vh - 3em); overflow-y: auto; padding: 1em; white-space: pre-wrap; }
  #bar { display: flex; padding: 0.5em 1em; }
  #input { flex: 1; background: #222; color: #ddd; border: 1px solid #444; font-family: monospace; padding: 0.3em; }
</style>
</head>
<body>
<div id="screen"></div>
<div id="bar"><input id="input" autofocus placeholder="enter your name to begin"></div>
<script>
  const screen = document.getElementById("screen");
  const input = document.getElementById("input");
  let loggedIn = false;

  const ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws");

  function print(text) {
    screen.textContent += text;
    screen.scrollTop = screen.scrollHeight;
  }

  ws.onopen = () => print("Connected. By what name do you wish to be known?\n");
  ws.onclose = () => print("\nDisconnected.\n");
  ws.onmessage = (ev) => {
    const msg = JSON.parse(ev.data);
    print(msg.text);
  };

  input.addEventListener("keydown", (ev) => {
    if (ev.key !== "Enter") return;
    const text = input.value;
    input.value = "";
    if (!loggedIn) {
      ws.send(JSON.stringify({type: "login", name: text}));
      loggedIn = true;
      input.placeholder = "";
    } else {
      print("> " + text + "\n");
      ws.send(JSON.stringify({type: "command", text: text}));
    }
  });
</script>
</body>
</html>
`
